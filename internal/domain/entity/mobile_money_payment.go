package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// MobileMoneyPayment records a payment request pushed to a member's phone
type MobileMoneyPayment struct {
	TenantModel
	MemberID        *uuid.UUID      `gorm:"type:uuid;index" json:"member_id,omitempty"`
	PhoneNumber     string          `gorm:"size:50;not null" json:"phone_number"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description     string          `gorm:"size:255" json:"description"`
	Success         bool            `gorm:"not null" json:"success"`
	Error           string          `gorm:"type:text" json:"error,omitempty"`
	TransactionID   string          `gorm:"size:100;index" json:"transaction_id,omitempty"`
	GatewayResponse datatypes.JSON  `json:"gateway_response,omitempty"`
	RequestedBy     *uuid.UUID      `gorm:"type:uuid" json:"requested_by,omitempty"`
}

// TableName returns the table name for the MobileMoneyPayment model
func (MobileMoneyPayment) TableName() string {
	return "mobile_money_payments"
}
