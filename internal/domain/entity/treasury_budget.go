package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TreasuryBudget rolls submitted department budgets up per fiscal year
type TreasuryBudget struct {
	TenantModel
	FiscalYearID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"fiscal_year_id"`
	TotalAllocated decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_allocated"`
	TotalSpent     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_spent"`

	FiscalYear *FiscalYear            `gorm:"foreignKey:FiscalYearID" json:"fiscal_year,omitempty"`
	Details    []TreasuryBudgetDetail `gorm:"foreignKey:TreasuryBudgetID" json:"details"`
}

// TableName returns the table name for the TreasuryBudget model
func (TreasuryBudget) TableName() string {
	return "treasury_budgets"
}

// TreasuryBudgetDetail is one department's share of the treasury budget
type TreasuryBudgetDetail struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TreasuryBudgetID uuid.UUID       `gorm:"type:uuid;not null;index" json:"treasury_budget_id"`
	DepartmentID     uuid.UUID       `gorm:"type:uuid;not null" json:"department_id"`
	AllocatedAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"allocated_amount"`
	SpentAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"spent_amount"`
	BudgetCount      int             `gorm:"not null;default:0" json:"budget_count"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// TableName returns the table name for the TreasuryBudgetDetail model
func (TreasuryBudgetDetail) TableName() string {
	return "treasury_budget_details"
}

// BeforeCreate generates a UUID before creating a new detail
func (d *TreasuryBudgetDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Rebuild replaces the details with one row per department summed over
// the given submitted budgets
func (t *TreasuryBudget) Rebuild(budgets []DepartmentBudget) {
	idx := make(map[uuid.UUID]int)
	t.Details = t.Details[:0]
	t.TotalAllocated = decimal.Zero
	t.TotalSpent = decimal.Zero

	for _, b := range budgets {
		i, ok := idx[b.DepartmentID]
		if !ok {
			i = len(t.Details)
			idx[b.DepartmentID] = i
			t.Details = append(t.Details, TreasuryBudgetDetail{
				TreasuryBudgetID: t.ID,
				DepartmentID:     b.DepartmentID,
			})
		}
		d := &t.Details[i]
		d.AllocatedAmount = d.AllocatedAmount.Add(b.TotalBudgetAmount)
		d.SpentAmount = d.SpentAmount.Add(b.SpentAmount)
		d.BudgetCount++

		t.TotalAllocated = t.TotalAllocated.Add(b.TotalBudgetAmount)
		t.TotalSpent = t.TotalSpent.Add(b.SpentAmount)
	}
}
