package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/stewardpro-api/internal/domain/enum"
)

func newBudget() *DepartmentBudget {
	return &DepartmentBudget{
		Name:              "BUD-2025-00001",
		BudgetPeriod:      enum.BudgetPeriodAnnual,
		TotalBudgetAmount: d("10000"),
		Items: []DepartmentBudgetItem{
			{ExpenseCategory: enum.ExpenseCategorySupplies, Quantity: d("10"), UnitPrice: d("200")},
			{ExpenseCategory: enum.ExpenseCategoryTravel, Quantity: d("2"), UnitPrice: d("1500")},
			{ExpenseCategory: enum.ExpenseCategorySupplies, Quantity: d("1"), UnitPrice: d("500")},
		},
	}
}

func TestBudgetValidateTotals(t *testing.T) {
	b := newBudget()
	b.Items[0].SpentAmount = d("300")
	require.NoError(t, b.Validate())

	assert.True(t, d("5500").Equal(b.AllocatedAmount))
	assert.True(t, d("300").Equal(b.SpentAmount))
	assert.True(t, d("9700").Equal(b.RemainingAmount))
	for _, li := range b.Items {
		assert.True(t, li.BudgetedAmount.Sub(li.SpentAmount).Equal(li.RemainingAmount))
	}
	assert.Equal(t, 3, b.Items[2].Idx)
}

func TestBudgetValidateRejects(t *testing.T) {
	b := newBudget()
	b.TotalBudgetAmount = d("1000")
	assert.Error(t, b.Validate(), "allocated above total")

	b = newBudget()
	b.Items = nil
	assert.Error(t, b.Validate(), "no items")

	b = newBudget()
	b.Items[1].Quantity = decimal.Zero
	assert.Error(t, b.Validate(), "zero quantity")
}

func TestBudgetPercentagesAndColor(t *testing.T) {
	tests := []struct {
		spent string
		util  string
		color string
	}{
		{"0", "0", "green"},
		{"5000", "50", "green"},
		{"8000", "80", "orange"},
		{"8001", "80.01", "red"},
		{"12000", "120", "red"},
	}
	for _, tt := range tests {
		t.Run(tt.spent, func(t *testing.T) {
			b := &DepartmentBudget{TotalBudgetAmount: d("10000"), SpentAmount: d(tt.spent)}
			assert.True(t, d(tt.util).Equal(b.UtilizationPercent()), "got %s", b.UtilizationPercent())
			assert.Equal(t, tt.color, b.StatusColor())
		})
	}

	b := newBudget()
	require.NoError(t, b.Validate())
	assert.True(t, d("55").Equal(b.AllocationPercent()))
	assert.False(t, b.IsOverBudget())
}

func TestExpenseSubmitThenCancelRestoresSpent(t *testing.T) {
	b := newBudget()
	b.Items[0].SpentAmount = d("150")
	require.NoError(t, b.Validate())
	before := b.SpentAmount
	beforeLines := []decimal.Decimal{b.Items[0].SpentAmount, b.Items[1].SpentAmount, b.Items[2].SpentAmount}

	e := &DepartmentExpense{Details: []DepartmentExpenseDetail{
		{ExpenseCategory: enum.ExpenseCategorySupplies, Quantity: d("3"), UnitPrice: d("33.33")},
		{ExpenseCategory: enum.ExpenseCategoryTravel, Quantity: d("1"), UnitPrice: d("800")},
	}}
	e.Recalculate()

	require.NoError(t, b.ApplyExpense(e))
	assert.True(t, before.Add(e.TotalAmount).Equal(b.SpentAmount))
	assert.True(t, d("249.99").Equal(b.Items[0].SpentAmount), "first supplies line takes the spend")
	assert.True(t, d("0").Equal(b.Items[2].SpentAmount))

	require.NoError(t, b.ReverseExpense(e))
	assert.True(t, before.Equal(b.SpentAmount))
	for i, li := range b.Items {
		assert.True(t, beforeLines[i].Equal(li.SpentAmount))
	}
}

func TestApplyExpenseUnknownCategoryLeavesBudget(t *testing.T) {
	b := newBudget()
	require.NoError(t, b.Validate())

	e := &DepartmentExpense{Details: []DepartmentExpenseDetail{
		{ExpenseCategory: enum.ExpenseCategorySupplies, Quantity: d("1"), UnitPrice: d("10")},
		{ExpenseCategory: enum.ExpenseCategoryRent, Quantity: d("1"), UnitPrice: d("10")},
	}}
	e.Recalculate()

	assert.Error(t, b.ApplyExpense(e))
	assert.True(t, b.SpentAmount.IsZero())
	assert.True(t, b.Items[0].SpentAmount.IsZero())
}
