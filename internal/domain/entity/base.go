package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sangkips/stewardpro-api/internal/domain/enum"
)

// TenantModel holds the columns every church-owned record carries
type TenantModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"church_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new record
func (m *TenantModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Document tracks the draft/submitted/cancelled lifecycle of financial records
type Document struct {
	DocStatus   enum.DocStatus `gorm:"type:smallint;not null;default:0;index" json:"doc_status"`
	SubmittedBy *uuid.UUID     `gorm:"type:uuid" json:"submitted_by,omitempty"`
	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
	CancelledAt *time.Time     `json:"cancelled_at,omitempty"`
}

func (d *Document) IsDraft() bool     { return d.DocStatus == enum.DocStatusDraft }
func (d *Document) IsSubmitted() bool { return d.DocStatus == enum.DocStatusSubmitted }
func (d *Document) IsCancelled() bool { return d.DocStatus == enum.DocStatusCancelled }

// MarkSubmitted moves the document out of draft
func (d *Document) MarkSubmitted(by uuid.UUID, at time.Time) {
	d.DocStatus = enum.DocStatusSubmitted
	d.SubmittedBy = &by
	d.SubmittedAt = &at
}

// MarkCancelled moves a submitted document to cancelled
func (d *Document) MarkCancelled(at time.Time) {
	d.DocStatus = enum.DocStatusCancelled
	d.CancelledAt = &at
}

// Money columns are decimal(15,2); amounts are rounded to cents on write.
const moneyPlaces = 2

// Round rounds an amount to cents
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// DateOf truncates t to a calendar date in UTC
func DateOf(t time.Time) datatypes.Date {
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

// NewDate builds a calendar date
func NewDate(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Time converts a stored date back to time.Time
func Time(d datatypes.Date) time.Time {
	return time.Time(d)
}

// ParseDate parses an ISO date (YYYY-MM-DD)
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return DateOf(t), nil
}

// FormatDate renders a date as YYYY-MM-DD
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format("2006-01-02")
}
