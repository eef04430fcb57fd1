package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// Document name prefixes
const (
	SeriesContribution = "TAO"
	SeriesExpense      = "EXP"
	SeriesIncome       = "INC"
	SeriesBudget       = "BUD"
	SeriesRemittance   = "REM"
)

// NamingSeries is the per-church counter behind document names
type NamingSeries struct {
	TenantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Prefix   string    `gorm:"size:20;primaryKey"`
	Current  int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for the NamingSeries model
func (NamingSeries) TableName() string {
	return "naming_series"
}

// SeriesKey is the counter key for a prefix in a given year
func SeriesKey(prefix string, year int) string {
	return fmt.Sprintf("%s-%d", prefix, year)
}

// FormatDocumentName builds e.g. EXP-2025-00042
func FormatDocumentName(prefix string, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, n)
}
