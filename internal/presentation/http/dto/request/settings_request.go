package request

import (
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest edits church settings; omitted fields are kept
type UpdateSettingsRequest struct {
	ChurchName           *string              `json:"church_name" binding:"omitempty,max=255"`
	AdminContactName     *string              `json:"admin_contact_name"`
	AdminContactEmail    *string              `json:"admin_contact_email" binding:"omitempty,email"`
	AdminContactPhone    *string              `json:"admin_contact_phone" binding:"omitempty,phone"`
	BillingContactEmail  *string              `json:"billing_contact_email" binding:"omitempty,email"`
	NotificationEmail    *string              `json:"notification_email" binding:"omitempty,email"`
	Features             *entity.FeatureFlags `json:"features"`
	SMSAPIKey            *string              `json:"sms_api_key"`
	SMSAPISecret         *string              `json:"sms_api_secret"`
	SMSSenderID          *string              `json:"sms_sender_id" binding:"omitempty,max=11"`
	SMSBaseURL           *string              `json:"sms_base_url" binding:"omitempty,url"`
	MobileMoneyAPIKey    *string              `json:"mobile_money_api_key"`
	MobileMoneyPublicKey *string              `json:"mobile_money_public_key"`
	MobileMoneyBaseURL   *string              `json:"mobile_money_base_url" binding:"omitempty,url"`
}

// ChangePackageRequest moves the church to another package
type ChangePackageRequest struct {
	Package string `json:"package" binding:"required,oneof=Starter Professional Premium Enterprise"`
	Months  int    `json:"months" binding:"omitempty,min=1,max=36"`
}

// BulkSMSRequest sends one message kind to a selection of members
type BulkSMSRequest struct {
	Type            string   `json:"type" binding:"required,oneof=custom welcome receipt"`
	Message         string   `json:"message" binding:"required_if=Type custom,max=480"`
	MemberIDs       []string `json:"member_ids" binding:"omitempty,dive,uuid"`
	ContributionIDs []string `json:"contribution_ids" binding:"omitempty,dive,uuid"`
}

// PaymentRequest asks the gateway to collect from a phone
type PaymentRequest struct {
	MemberID    *string         `json:"member_id" binding:"omitempty,uuid"`
	PhoneNumber string          `json:"phone_number" binding:"required,phone"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"max=255"`
}

// FiscalYearRequest creates a fiscal year
type FiscalYearRequest struct {
	Year          string  `json:"year"`
	YearStartDate string  `json:"year_start_date" binding:"required,datetime=2006-01-02"`
	YearEndDate   *string `json:"year_end_date" binding:"omitempty,datetime=2006-01-02"`
	IsShortYear   bool    `json:"is_short_year"`
	Disabled      bool    `json:"disabled"`
}

// UpdateFiscalYearRequest edits the mutable fiscal year fields
type UpdateFiscalYearRequest struct {
	Year        *string `json:"year"`
	IsShortYear *bool   `json:"is_short_year"`
	Disabled    *bool   `json:"disabled"`
}
