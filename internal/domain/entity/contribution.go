package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
)

// FieldShare is the part of every offering forwarded to the field
var FieldShare = decimal.RequireFromString("0.58")

// SplitOffering divides an offering between field and church. The church
// share takes the rounding remainder so both always add up to the offering.
func SplitOffering(offering decimal.Decimal) (toField, toChurch decimal.Decimal) {
	offering = Round(offering)
	toField = Round(offering.Mul(FieldShare))
	toChurch = offering.Sub(toField)
	return toField, toChurch
}

// Contribution is a tithe and offering receipt
type Contribution struct {
	TenantModel
	Document
	Name                   string           `gorm:"size:50;not null;index" json:"name"`
	Date                   datatypes.Date   `gorm:"not null;index" json:"date"`
	MemberID               *uuid.UUID       `gorm:"type:uuid;index" json:"member_id,omitempty"`
	TitheAmount            decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"tithe_amount"`
	OfferingAmount         decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"offering_amount"`
	CampmeetingOffering    decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"campmeeting_offering"`
	ChurchBuildingOffering decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"church_building_offering"`
	OfferingToField        decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"offering_to_field"`
	OfferingToChurch       decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"offering_to_church"`
	TotalAmount            decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	PaymentMode            enum.PaymentMode `gorm:"size:30;not null;default:'Cash'" json:"payment_mode"`
	ReceiptNumber          string           `gorm:"size:50;index" json:"receipt_number,omitempty"`
	Notes                  string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy              *uuid.UUID       `gorm:"type:uuid" json:"created_by,omitempty"`

	// Relationships
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

// TableName returns the table name for the Contribution model
func (Contribution) TableName() string {
	return "tithes_and_offerings"
}

// Calculate derives the offering split and the total
func (c *Contribution) Calculate() {
	c.TitheAmount = Round(c.TitheAmount)
	c.OfferingAmount = Round(c.OfferingAmount)
	c.CampmeetingOffering = Round(c.CampmeetingOffering)
	c.ChurchBuildingOffering = Round(c.ChurchBuildingOffering)

	c.OfferingToField, c.OfferingToChurch = SplitOffering(c.OfferingAmount)
	c.TotalAmount = c.TitheAmount.
		Add(c.OfferingAmount).
		Add(c.CampmeetingOffering).
		Add(c.ChurchBuildingOffering)
}

// SpecialOffering is campmeeting plus building offering
func (c *Contribution) SpecialOffering() decimal.Decimal {
	return c.CampmeetingOffering.Add(c.ChurchBuildingOffering)
}

// Validate recalculates derived amounts and checks them
func (c *Contribution) Validate() error {
	c.Calculate()

	var errs []apperror.FieldError
	for field, amt := range map[string]decimal.Decimal{
		"tithe_amount":             c.TitheAmount,
		"offering_amount":          c.OfferingAmount,
		"campmeeting_offering":     c.CampmeetingOffering,
		"church_building_offering": c.ChurchBuildingOffering,
	} {
		if amt.IsNegative() {
			errs = append(errs, apperror.FieldError{Field: field, Message: "Amount cannot be negative"})
		}
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	if !c.TotalAmount.IsPositive() {
		return apperror.NewFieldError("total_amount", "Total amount must be greater than zero")
	}
	if c.PaymentMode == "" {
		c.PaymentMode = enum.PaymentModeCash
	}
	if !c.PaymentMode.In(enum.ContributionPaymentModes) {
		return apperror.NewFieldError("payment_mode", "Invalid payment mode")
	}
	if Time(c.Date).IsZero() {
		return apperror.NewFieldError("date", "Date is required")
	}
	return nil
}

// FormatReceiptNumber builds RCP-YYYY-MM-DD-NNNN
func FormatReceiptNumber(date time.Time, seq int64) string {
	return fmt.Sprintf("RCP-%s-%04d", date.Format("2006-01-02"), seq)
}
