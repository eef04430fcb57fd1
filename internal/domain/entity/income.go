package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
)

// DepartmentIncome records money received by a department
type DepartmentIncome struct {
	TenantModel
	Document
	Name           string          `gorm:"size:50;not null;index" json:"name"`
	DepartmentID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"department_id"`
	DepartmentCode string          `gorm:"size:50" json:"department_code"`
	IncomeType     enum.IncomeType `gorm:"size:30;not null" json:"income_type"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	Date           datatypes.Date  `gorm:"not null;index" json:"date"`
	Source         string          `gorm:"size:255" json:"source,omitempty"`
	Description    string          `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// TableName returns the table name for the DepartmentIncome model
func (DepartmentIncome) TableName() string {
	return "department_incomes"
}

// Validate checks amount and type
func (i *DepartmentIncome) Validate() error {
	i.Amount = Round(i.Amount)
	if !i.Amount.IsPositive() {
		return apperror.NewFieldError("amount", "Amount must be greater than zero")
	}
	if !i.IncomeType.IsValid() {
		return apperror.NewFieldError("income_type", "Invalid income type")
	}
	if Time(i.Date).IsZero() {
		return apperror.NewFieldError("date", "Date is required")
	}
	return nil
}
