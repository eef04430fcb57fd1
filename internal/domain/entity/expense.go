package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
)

// DepartmentExpense records spending by a department, optionally against a budget
type DepartmentExpense struct {
	TenantModel
	Document
	Name            string             `gorm:"size:50;not null;index" json:"name"`
	DepartmentID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"department_id"`
	BudgetID        *uuid.UUID         `gorm:"type:uuid;index" json:"budget_reference,omitempty"`
	ExpenseDate     datatypes.Date     `gorm:"not null;index" json:"expense_date"`
	PaymentMode     enum.PaymentMode   `gorm:"size:30;not null;default:'Cash'" json:"payment_mode"`
	Vendor          string             `gorm:"size:255" json:"vendor,omitempty"`
	InvoiceNumber   string             `gorm:"size:100" json:"invoice_number,omitempty"`
	ReceiptNumber   string             `gorm:"size:100" json:"receipt_number,omitempty"`
	ReferenceNumber string             `gorm:"size:100" json:"reference_number,omitempty"`
	Status          enum.ExpenseStatus `gorm:"size:30;not null;default:'Draft';index" json:"status"`
	ApprovedBy      *uuid.UUID         `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovalDate    *datatypes.Date    `json:"approval_date,omitempty"`
	TotalAmount     decimal.Decimal    `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	Notes           string             `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy       *uuid.UUID         `gorm:"type:uuid" json:"created_by,omitempty"`

	// Relationships
	Department *Department               `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Budget     *DepartmentBudget         `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
	Details    []DepartmentExpenseDetail `gorm:"foreignKey:ExpenseID" json:"details,omitempty"`
}

// TableName returns the table name for the DepartmentExpense model
func (DepartmentExpense) TableName() string {
	return "department_expenses"
}

// DepartmentExpenseDetail is one expense line
type DepartmentExpenseDetail struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	ExpenseID       uuid.UUID            `gorm:"type:uuid;not null;index" json:"expense_id"`
	Idx             int                  `gorm:"not null;default:0" json:"idx"`
	ItemID          *uuid.UUID           `gorm:"type:uuid" json:"item_id,omitempty"`
	ExpenseCategory enum.ExpenseCategory `gorm:"size:30;not null" json:"expense_category"`
	Description     string               `gorm:"type:text" json:"description,omitempty"`
	Quantity        decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:1" json:"quantity"`
	UnitPrice       decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"unit_price"`
	Amount          decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// TableName returns the table name for the DepartmentExpenseDetail model
func (DepartmentExpenseDetail) TableName() string {
	return "department_expense_details"
}

// BeforeCreate generates a UUID before creating a new line
func (d *DepartmentExpenseDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Recalculate derives line amounts and the total
func (e *DepartmentExpense) Recalculate() {
	total := decimal.Zero
	for i := range e.Details {
		d := &e.Details[i]
		d.Idx = i + 1
		d.Amount = Round(d.Quantity.Mul(d.UnitPrice))
		total = total.Add(d.Amount)
	}
	e.TotalAmount = total
}

// Validate recalculates and checks the expense. The budget reference is
// checked separately since it needs the stored budget.
func (e *DepartmentExpense) Validate(today time.Time) error {
	if len(e.Details) == 0 {
		return apperror.NewFieldError("details", "Expense must have at least one detail")
	}

	var errs []apperror.FieldError
	for i, d := range e.Details {
		if !d.ExpenseCategory.IsValid() {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("details[%d].expense_category", i), Message: "Invalid expense category"})
		}
		if !d.Quantity.IsPositive() {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("details[%d].quantity", i), Message: "Quantity must be greater than zero"})
		}
		if !d.UnitPrice.IsPositive() {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("details[%d].unit_price", i), Message: "Unit price must be greater than zero"})
		}
	}
	if e.PaymentMode == "" {
		e.PaymentMode = enum.PaymentModeCash
	}
	if !e.PaymentMode.In(enum.ExpensePaymentModes) {
		errs = append(errs, apperror.FieldError{Field: "payment_mode", Message: "Invalid payment mode"})
	}
	if Time(e.ExpenseDate).IsZero() {
		errs = append(errs, apperror.FieldError{Field: "expense_date", Message: "Expense date is required"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}

	e.Recalculate()

	if e.Status == "" {
		e.Status = enum.ExpenseStatusDraft
	}
	if e.Status == enum.ExpenseStatusApproved {
		if e.ApprovedBy == nil {
			return apperror.NewFieldError("approved_by", "Approved by is required for approved expenses")
		}
		if e.ApprovalDate == nil {
			d := DateOf(today)
			e.ApprovalDate = &d
		}
	}
	return nil
}

// AmountByCategory sums line amounts per category in first-seen order
func (e *DepartmentExpense) AmountByCategory() ([]enum.ExpenseCategory, map[enum.ExpenseCategory]decimal.Decimal) {
	var order []enum.ExpenseCategory
	sums := make(map[enum.ExpenseCategory]decimal.Decimal)
	for _, d := range e.Details {
		if _, ok := sums[d.ExpenseCategory]; !ok {
			order = append(order, d.ExpenseCategory)
		}
		sums[d.ExpenseCategory] = sums[d.ExpenseCategory].Add(d.Amount)
	}
	return order, sums
}

// BudgetWarnings lists categories whose spending would exceed what the
// budget line has left. Overspending is allowed.
func (e *DepartmentExpense) BudgetWarnings(b *DepartmentBudget) []string {
	var warnings []string
	order, sums := e.AmountByCategory()
	for _, cat := range order {
		li := b.LineForCategory(cat)
		if li == nil {
			continue
		}
		if sums[cat].GreaterThan(li.RemainingAmount) {
			warnings = append(warnings, fmt.Sprintf(
				"%s spending %s exceeds remaining budget %s",
				cat, sums[cat].StringFixed(2), li.RemainingAmount.StringFixed(2)))
		}
	}
	return warnings
}
