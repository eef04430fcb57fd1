package request

import "github.com/shopspring/decimal"

// MemberRequest creates or replaces a member
type MemberRequest struct {
	MemberID    string  `json:"member_id" binding:"omitempty,max=50"`
	FirstName   string  `json:"first_name" binding:"required,max=255"`
	LastName    string  `json:"last_name" binding:"required,max=255"`
	Gender      string  `json:"gender" binding:"omitempty,oneof=Male Female"`
	Email       string  `json:"email" binding:"omitempty,email"`
	Contact     string  `json:"contact" binding:"omitempty,phone"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	BaptismDate *string `json:"baptism_date" binding:"omitempty,datetime=2006-01-02"`
	JoinDate    *string `json:"join_date" binding:"omitempty,datetime=2006-01-02"`
	Status      string  `json:"status" binding:"omitempty,oneof=Active Inactive Transferred Deceased"`
	ChurchRole  string  `json:"church_role"`
	Address     string  `json:"address"`
	Notes       string  `json:"notes"`
}

// ContributionRequest records one tithe and offering entry. Amounts accept
// JSON numbers or strings.
type ContributionRequest struct {
	Date                   string          `json:"date" binding:"required,datetime=2006-01-02"`
	MemberID               *string         `json:"member_id" binding:"omitempty,uuid"`
	TitheAmount            decimal.Decimal `json:"tithe_amount"`
	OfferingAmount         decimal.Decimal `json:"offering_amount"`
	CampmeetingOffering    decimal.Decimal `json:"campmeeting_offering"`
	ChurchBuildingOffering decimal.Decimal `json:"church_building_offering"`
	PaymentMode            string          `json:"payment_mode" binding:"required,oneof=Cash Mpesa 'Bank Transfer' Cheque 'Credit Card' Other"`
	ReceiptNumber          string          `json:"receipt_number" binding:"omitempty,max=50"`
	Notes                  string          `json:"notes"`
}
