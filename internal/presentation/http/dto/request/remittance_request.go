package request

import "github.com/shopspring/decimal"

// RemittanceRequest creates or replaces a remittance
type RemittanceRequest struct {
	OrganizationName       string          `json:"organization_name" binding:"required,max=255"`
	OrganizationType       string          `json:"organization_type" binding:"required,oneof=Conference Union Division 'General Conference' Other"`
	RemittanceDate         string          `json:"remittance_date" binding:"required,datetime=2006-01-02"`
	RemittancePeriod       string          `json:"remittance_period" binding:"required,oneof=Weekly Monthly Quarterly Annual"`
	TitheAmount            decimal.Decimal `json:"tithe_amount"`
	OfferingToFieldAmount  decimal.Decimal `json:"offering_to_field_amount"`
	SpecialOfferingsAmount decimal.Decimal `json:"special_offerings_amount"`
	OtherRemittancesAmount decimal.Decimal `json:"other_remittances_amount"`
	PaymentMode            string          `json:"payment_mode" binding:"required,oneof='Bank Transfer' Cheque Cash Other"`
	ReferenceNumber        string          `json:"reference_number"`
	ContactPerson          string          `json:"contact_person"`
	ContactDetails         string          `json:"contact_details"`
	NotificationEmail      string          `json:"notification_email" binding:"omitempty,email"`
	Notes                  string          `json:"notes"`
}

// RemittancePreviewQuery selects the period to total
type RemittancePreviewQuery struct {
	Date   string `form:"date" binding:"required,datetime=2006-01-02"`
	Period string `form:"period" binding:"required,oneof=Weekly Monthly Quarterly Annual"`
}

// MarkSentRequest records the transfer reference
type MarkSentRequest struct {
	ReferenceNumber string `json:"reference_number"`
}
