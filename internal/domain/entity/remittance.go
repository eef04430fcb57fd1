package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
)

// Remittance forwards tithes and field offerings to the parent organization
type Remittance struct {
	TenantModel
	Document
	Name                   string                `gorm:"size:50;not null;index" json:"name"`
	OrganizationName       string                `gorm:"size:255;not null" json:"organization_name"`
	OrganizationType       enum.OrganizationType `gorm:"size:30;not null;default:'Conference'" json:"organization_type"`
	RemittanceDate         datatypes.Date        `gorm:"not null;index" json:"remittance_date"`
	RemittancePeriod       enum.RemittancePeriod `gorm:"size:20;not null;default:'Monthly'" json:"remittance_period"`
	TitheAmount            decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0" json:"tithe_amount"`
	OfferingToFieldAmount  decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0" json:"offering_to_field_amount"`
	SpecialOfferingsAmount decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0" json:"special_offerings_amount"`
	OtherRemittancesAmount decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0" json:"other_remittances_amount"`
	TotalRemittanceAmount  decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0" json:"total_remittance_amount"`
	PaymentMode            enum.PaymentMode      `gorm:"size:30;not null;default:'Bank Transfer'" json:"payment_mode"`
	ReferenceNumber        string                `gorm:"size:100" json:"reference_number,omitempty"`
	Status                 enum.RemittanceStatus `gorm:"size:30;not null;default:'Draft';index" json:"status"`
	PreparedBy             *uuid.UUID            `gorm:"type:uuid" json:"prepared_by,omitempty"`
	ApprovedBy             *uuid.UUID            `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovalDate           *datatypes.Date       `json:"approval_date,omitempty"`
	ContactPerson          string                `gorm:"size:255" json:"contact_person,omitempty"`
	ContactDetails         string                `gorm:"size:255" json:"contact_details,omitempty"`
	NotificationEmail      string                `gorm:"size:255" json:"notification_email,omitempty"`
	Notes                  string                `gorm:"type:text" json:"notes,omitempty"`

	Items []RemittanceItem `gorm:"foreignKey:RemittanceID" json:"items,omitempty"`
}

// TableName returns the table name for the Remittance model
func (Remittance) TableName() string {
	return "remittances"
}

// RemittanceItem is a derived line of the remittance breakdown
type RemittanceItem struct {
	ID           uuid.UUID               `gorm:"type:uuid;primary_key" json:"id"`
	RemittanceID uuid.UUID               `gorm:"type:uuid;not null;index" json:"remittance_id"`
	Idx          int                     `gorm:"not null;default:0" json:"idx"`
	ItemType     enum.RemittanceItemType `gorm:"size:30;not null" json:"item_type"`
	Description  string                  `gorm:"size:255" json:"description"`
	Amount       decimal.Decimal         `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	Percentage   *decimal.Decimal        `gorm:"type:decimal(5,2)" json:"percentage,omitempty"`
}

// TableName returns the table name for the RemittanceItem model
func (RemittanceItem) TableName() string {
	return "remittance_items"
}

// BeforeCreate generates a UUID before creating a new line
func (ri *RemittanceItem) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

func pct(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// Calculate sums the total and regenerates the item breakdown
func (r *Remittance) Calculate() {
	r.TitheAmount = Round(r.TitheAmount)
	r.OfferingToFieldAmount = Round(r.OfferingToFieldAmount)
	r.SpecialOfferingsAmount = Round(r.SpecialOfferingsAmount)
	r.OtherRemittancesAmount = Round(r.OtherRemittancesAmount)

	r.TotalRemittanceAmount = r.TitheAmount.
		Add(r.OfferingToFieldAmount).
		Add(r.SpecialOfferingsAmount).
		Add(r.OtherRemittancesAmount)

	lines := []RemittanceItem{
		{ItemType: enum.RemittanceItemTithe, Description: "Tithe collection", Amount: r.TitheAmount, Percentage: pct(100)},
		{ItemType: enum.RemittanceItemOfferingToField, Description: "Offering to field (58%)", Amount: r.OfferingToFieldAmount, Percentage: pct(58)},
		{ItemType: enum.RemittanceItemSpecialOffering, Description: "Special offerings", Amount: r.SpecialOfferingsAmount, Percentage: pct(100)},
		{ItemType: enum.RemittanceItemOther, Description: "Other remittances", Amount: r.OtherRemittancesAmount},
	}
	r.Items = r.Items[:0]
	for _, li := range lines {
		if li.Amount.IsZero() {
			continue
		}
		li.RemittanceID = r.ID
		li.Idx = len(r.Items) + 1
		r.Items = append(r.Items, li)
	}
}

// Validate recalculates and checks the remittance
func (r *Remittance) Validate(today time.Time) error {
	var errs []apperror.FieldError
	for field, amt := range map[string]decimal.Decimal{
		"tithe_amount":             r.TitheAmount,
		"offering_to_field_amount": r.OfferingToFieldAmount,
		"special_offerings_amount": r.SpecialOfferingsAmount,
		"other_remittances_amount": r.OtherRemittancesAmount,
	} {
		if amt.IsNegative() {
			errs = append(errs, apperror.FieldError{Field: field, Message: "Amount cannot be negative"})
		}
	}
	if r.OrganizationName == "" {
		errs = append(errs, apperror.FieldError{Field: "organization_name", Message: "Organization name is required"})
	}
	if r.OrganizationType == "" {
		r.OrganizationType = enum.OrganizationConference
	}
	if !r.OrganizationType.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "organization_type", Message: "Invalid organization type"})
	}
	if r.RemittancePeriod == "" {
		r.RemittancePeriod = enum.RemittancePeriodMonthly
	}
	if !r.RemittancePeriod.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "remittance_period", Message: "Invalid remittance period"})
	}
	if r.PaymentMode == "" {
		r.PaymentMode = enum.PaymentModeBankTransfer
	}
	if !r.PaymentMode.In(enum.RemittancePaymentModes) {
		errs = append(errs, apperror.FieldError{Field: "payment_mode", Message: "Invalid payment mode"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}

	r.Calculate()
	if !r.TotalRemittanceAmount.IsPositive() {
		return apperror.NewFieldError("total_remittance_amount", "Total remittance amount must be greater than zero")
	}

	if r.Status == "" {
		r.Status = enum.RemittanceStatusDraft
	}
	if r.Status == enum.RemittanceStatusApproved && r.ApprovedBy == nil {
		return apperror.NewFieldError("approved_by", "Approved by is required for approved remittances")
	}
	if r.ApprovedBy != nil && r.ApprovalDate == nil {
		d := DateOf(today)
		r.ApprovalDate = &d
	}
	return nil
}

// PeriodRange returns the collection window the remittance covers
func (r *Remittance) PeriodRange() (from, to time.Time) {
	return r.RemittancePeriod.Range(Time(r.RemittanceDate))
}

// RemittancePreview is what submitted contributions in a period add up to
type RemittancePreview struct {
	PeriodFrom             string          `json:"period_from"`
	PeriodTo               string          `json:"period_to"`
	TitheAmount            decimal.Decimal `json:"tithe_amount"`
	OfferingToFieldAmount  decimal.Decimal `json:"offering_to_field_amount"`
	SpecialOfferingsAmount decimal.Decimal `json:"special_offerings_amount"`
	TotalRemittanceAmount  decimal.Decimal `json:"total_remittance_amount"`
	ContributionCount      int64           `json:"contribution_count"`
}
