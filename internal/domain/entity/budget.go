package entity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
)

var hundred = decimal.NewFromInt(100)

// DepartmentBudget allocates money to a department for one fiscal year
type DepartmentBudget struct {
	TenantModel
	Document
	Name              string            `gorm:"size:50;not null;index" json:"name"`
	DepartmentID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"department_id"`
	FiscalYearID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"fiscal_year_id"`
	BudgetPeriod      enum.BudgetPeriod `gorm:"size:20;not null;default:'Annual'" json:"budget_period"`
	TotalBudgetAmount decimal.Decimal   `gorm:"type:decimal(15,2);not null;default:0" json:"total_budget_amount"`
	AllocatedAmount   decimal.Decimal   `gorm:"type:decimal(15,2);not null;default:0" json:"allocated_amount"`
	SpentAmount       decimal.Decimal   `gorm:"type:decimal(15,2);not null;default:0" json:"spent_amount"`
	RemainingAmount   decimal.Decimal   `gorm:"type:decimal(15,2);not null;default:0" json:"remaining_amount"`
	Status            enum.BudgetStatus `gorm:"size:20;not null;default:'Draft';index" json:"status"`
	Description       string            `gorm:"type:text" json:"description,omitempty"`
	Notes             string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy         *uuid.UUID        `gorm:"type:uuid" json:"created_by,omitempty"`

	// Relationships
	Department *Department            `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	FiscalYear *FiscalYear            `gorm:"foreignKey:FiscalYearID" json:"fiscal_year,omitempty"`
	Items      []DepartmentBudgetItem `gorm:"foreignKey:BudgetID" json:"items,omitempty"`
}

// TableName returns the table name for the DepartmentBudget model
func (DepartmentBudget) TableName() string {
	return "department_budgets"
}

// DepartmentBudgetItem is one budget line
type DepartmentBudgetItem struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	BudgetID        uuid.UUID            `gorm:"type:uuid;not null;index" json:"budget_id"`
	Idx             int                  `gorm:"not null;default:0" json:"idx"`
	ItemID          *uuid.UUID           `gorm:"type:uuid;index" json:"item_id,omitempty"`
	ExpenseCategory enum.ExpenseCategory `gorm:"size:30;not null" json:"expense_category"`
	Description     string               `gorm:"type:text" json:"description,omitempty"`
	Quantity        decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:1" json:"quantity"`
	UnitPrice       decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"unit_price"`
	BudgetedAmount  decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"budgeted_amount"`
	SpentAmount     decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"spent_amount"`
	RemainingAmount decimal.Decimal      `gorm:"type:decimal(15,2);not null;default:0" json:"remaining_amount"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// TableName returns the table name for the DepartmentBudgetItem model
func (DepartmentBudgetItem) TableName() string {
	return "department_budget_items"
}

// BeforeCreate generates a UUID before creating a new line
func (li *DepartmentBudgetItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

// Recalculate derives the line's budgeted and remaining amounts
func (li *DepartmentBudgetItem) Recalculate() {
	li.BudgetedAmount = Round(li.Quantity.Mul(li.UnitPrice))
	li.RemainingAmount = li.BudgetedAmount.Sub(li.SpentAmount)
}

// Recalculate re-sums every line into the budget totals
func (b *DepartmentBudget) Recalculate() {
	allocated := decimal.Zero
	spent := decimal.Zero
	for i := range b.Items {
		b.Items[i].Idx = i + 1
		b.Items[i].Recalculate()
		allocated = allocated.Add(b.Items[i].BudgetedAmount)
		spent = spent.Add(b.Items[i].SpentAmount)
	}
	b.AllocatedAmount = allocated
	b.SpentAmount = spent
	b.RemainingAmount = b.TotalBudgetAmount.Sub(spent)
}

// Validate recalculates totals and checks the budget is consistent
func (b *DepartmentBudget) Validate() error {
	b.TotalBudgetAmount = Round(b.TotalBudgetAmount)
	if len(b.Items) == 0 {
		return apperror.NewFieldError("items", "Budget must have at least one item")
	}
	if !b.BudgetPeriod.IsValid() {
		return apperror.NewFieldError("budget_period", "Invalid budget period")
	}
	if b.TotalBudgetAmount.IsNegative() {
		return apperror.NewFieldError("total_budget_amount", "Total budget amount cannot be negative")
	}

	var errs []apperror.FieldError
	for i, li := range b.Items {
		if !li.ExpenseCategory.IsValid() {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].expense_category", i), Message: "Invalid expense category"})
		}
		if !li.Quantity.IsPositive() {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "Quantity must be greater than zero"})
		}
		if li.UnitPrice.IsNegative() {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].unit_price", i), Message: "Unit price cannot be negative"})
		}
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}

	b.Recalculate()
	if b.AllocatedAmount.GreaterThan(b.TotalBudgetAmount) {
		return apperror.NewFieldError("items", fmt.Sprintf(
			"Allocated amount %s exceeds total budget amount %s",
			b.AllocatedAmount.StringFixed(2), b.TotalBudgetAmount.StringFixed(2)))
	}
	return nil
}

// LineForCategory returns the first budget line with the given category
func (b *DepartmentBudget) LineForCategory(cat enum.ExpenseCategory) *DepartmentBudgetItem {
	for i := range b.Items {
		if b.Items[i].ExpenseCategory == cat {
			return &b.Items[i]
		}
	}
	return nil
}

// ApplyExpense adds each expense line to the budget line of the same
// category. Nothing changes if any category is missing from the budget.
func (b *DepartmentBudget) ApplyExpense(e *DepartmentExpense) error {
	return b.shiftSpent(e, 1)
}

// ReverseExpense undoes ApplyExpense
func (b *DepartmentBudget) ReverseExpense(e *DepartmentExpense) error {
	return b.shiftSpent(e, -1)
}

func (b *DepartmentBudget) shiftSpent(e *DepartmentExpense, sign int64) error {
	for _, d := range e.Details {
		if b.LineForCategory(d.ExpenseCategory) == nil {
			return apperror.NewFieldError("details", fmt.Sprintf(
				"Budget %s has no line for category %s", b.Name, d.ExpenseCategory))
		}
	}
	factor := decimal.NewFromInt(sign)
	for _, d := range e.Details {
		li := b.LineForCategory(d.ExpenseCategory)
		li.SpentAmount = li.SpentAmount.Add(d.Amount.Mul(factor))
	}
	b.Recalculate()
	return nil
}

// UtilizationPercent is spent over total budget
func (b *DepartmentBudget) UtilizationPercent() decimal.Decimal {
	if !b.TotalBudgetAmount.IsPositive() {
		return decimal.Zero
	}
	return b.SpentAmount.Div(b.TotalBudgetAmount).Mul(hundred).Round(2)
}

// AllocationPercent is allocated over total budget
func (b *DepartmentBudget) AllocationPercent() decimal.Decimal {
	if !b.TotalBudgetAmount.IsPositive() {
		return decimal.Zero
	}
	return b.AllocatedAmount.Div(b.TotalBudgetAmount).Mul(hundred).Round(2)
}

// IsOverBudget reports whether spending passed the total
func (b *DepartmentBudget) IsOverBudget() bool {
	return b.SpentAmount.GreaterThan(b.TotalBudgetAmount)
}

// StatusColor maps utilization onto a traffic light
func (b *DepartmentBudget) StatusColor() string {
	return UtilizationColor(b.UtilizationPercent())
}

// UtilizationColor is green up to 50%, orange up to 80%, red beyond
func UtilizationColor(pct decimal.Decimal) string {
	switch {
	case pct.LessThanOrEqual(decimal.NewFromInt(50)):
		return "green"
	case pct.LessThanOrEqual(decimal.NewFromInt(80)):
		return "orange"
	default:
		return "red"
	}
}
