package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/sangkips/stewardpro-api/internal/domain/enum"
)

// SMS log statuses; failures carry the gateway error after the prefix
const (
	SMSStatusSuccess      = "Success"
	SMSStatusFailedPrefix = "Failed: "
)

// SMSLog is one outbound SMS attempt
type SMSLog struct {
	TenantModel
	SMSType         enum.SMSType   `gorm:"size:50;not null;index" json:"sms_type"`
	MemberID        *uuid.UUID     `gorm:"type:uuid;index" json:"member_id,omitempty"`
	RecipientName   string         `gorm:"size:255" json:"recipient_name"`
	PhoneNumber     string         `gorm:"size:50;not null" json:"phone_number"`
	Message         string         `gorm:"type:text;not null" json:"message"`
	Status          string         `gorm:"size:255;not null" json:"status"`
	Reference       string         `gorm:"size:100" json:"reference,omitempty"`
	ReferenceDoc    string         `gorm:"size:100" json:"reference_document,omitempty"`
	GatewayResponse datatypes.JSON `json:"gateway_response,omitempty"`
	SentAt          time.Time      `gorm:"not null;index" json:"sent_at"`
}

// TableName returns the table name for the SMSLog model
func (SMSLog) TableName() string {
	return "sms_logs"
}

// Succeeded reports whether the gateway accepted the message
func (l *SMSLog) Succeeded() bool {
	return l.Status == SMSStatusSuccess
}
