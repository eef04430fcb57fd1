package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expenseFixture struct {
	svc     *ExpenseService
	repo    *fakeExpenseRepo
	budgets *fakeBudgetRepo
	dept    *entity.Department
	budget  *entity.DepartmentBudget
}

func newExpenseFixture(t *testing.T) (*expenseFixture, context.Context) {
	t.Helper()
	ctx, churchID := churchCtx()
	freezeClock(t, time.Date(2025, 4, 10, 8, 0, 0, 0, time.UTC))

	dept := &entity.Department{Name: "Youth", Code: "YTH", IsActive: true}
	dept.ID = uuid.New()
	dept.TenantID = churchID

	budget := &entity.DepartmentBudget{
		Name:              "BUD-2025-00001",
		DepartmentID:      dept.ID,
		BudgetPeriod:      enum.BudgetPeriodAnnual,
		TotalBudgetAmount: d("10000"),
		Status:            enum.BudgetStatusActive,
		Items: []entity.DepartmentBudgetItem{
			{ExpenseCategory: enum.ExpenseCategorySupplies, Quantity: d("10"), UnitPrice: d("200")},
			{ExpenseCategory: enum.ExpenseCategoryTravel, Quantity: d("1"), UnitPrice: d("3000")},
		},
	}
	budget.ID = uuid.New()
	budget.TenantID = churchID
	budget.DocStatus = enum.DocStatusSubmitted
	require.NoError(t, budget.Validate())

	budgets := &fakeBudgetRepo{budgets: map[uuid.UUID]*entity.DepartmentBudget{budget.ID: budget}}
	repo := &fakeExpenseRepo{expenses: make(map[uuid.UUID]*entity.DepartmentExpense), budgets: budgets}
	depts := &fakeDeptRepo{depts: map[uuid.UUID]*entity.Department{dept.ID: dept}}

	return &expenseFixture{
		svc:     NewExpenseService(repo, depts, budgets, &fakeItemRepo{}, &fakeSeries{}),
		repo:    repo,
		budgets: budgets,
		dept:    dept,
		budget:  budget,
	}, ctx
}

func (f *expenseFixture) input(lines ...ExpenseDetailInput) *ExpenseInput {
	return &ExpenseInput{
		DepartmentID: f.dept.ID,
		BudgetID:     &f.budget.ID,
		ExpenseDate:  entity.NewDate(2025, 4, 9),
		PaymentMode:  enum.PaymentModeCash,
		Details:      lines,
	}
}

func (f *expenseFixture) spent() string {
	return f.budgets.budgets[f.budget.ID].SpentAmount.StringFixed(2)
}

func TestExpenseSubmitThenCancelRestoresBudget(t *testing.T) {
	f, ctx := newExpenseFixture(t)
	userID := uuid.New()

	res, err := f.svc.CreateExpense(ctx, userID, f.input(
		ExpenseDetailInput{ExpenseCategory: enum.ExpenseCategorySupplies, Quantity: d("3"), UnitPrice: d("150")},
		ExpenseDetailInput{ExpenseCategory: enum.ExpenseCategoryTravel, Quantity: d("1"), UnitPrice: d("1000")},
	))
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "EXP-2025-00001", res.Expense.Name)
	assert.Equal(t, "0.00", f.spent())

	submitted, err := f.svc.SubmitExpense(ctx, userID, res.Expense.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ExpenseStatusPendingApproval, submitted.Expense.Status)
	assert.Equal(t, "1450.00", f.spent())

	b := f.budgets.budgets[f.budget.ID]
	assert.Equal(t, "450.00", b.LineForCategory(enum.ExpenseCategorySupplies).SpentAmount.StringFixed(2))
	assert.True(t, b.TotalBudgetAmount.Sub(b.SpentAmount).Equal(b.RemainingAmount))

	cancelled, err := f.svc.CancelExpense(ctx, res.Expense.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled())
	assert.Equal(t, "0.00", f.spent())
}

func TestExpenseRejectReleasesSpendOnce(t *testing.T) {
	f, ctx := newExpenseFixture(t)
	userID := uuid.New()

	res, err := f.svc.CreateExpense(ctx, userID, f.input(
		ExpenseDetailInput{ExpenseCategory: enum.ExpenseCategoryTravel, Quantity: d("2"), UnitPrice: d("500")},
	))
	require.NoError(t, err)
	_, err = f.svc.SubmitExpense(ctx, userID, res.Expense.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", f.spent())

	rejected, err := f.svc.RejectExpense(ctx, res.Expense.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ExpenseStatusRejected, rejected.Status)
	assert.Equal(t, "0.00", f.spent())

	_, err = f.svc.CancelExpense(ctx, res.Expense.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", f.spent(), "cancel after reject must not release twice")
}

func TestExpenseApprovalFlow(t *testing.T) {
	f, ctx := newExpenseFixture(t)
	userID, approver := uuid.New(), uuid.New()

	res, err := f.svc.CreateExpense(ctx, userID, f.input(
		ExpenseDetailInput{ExpenseCategory: enum.ExpenseCategorySupplies, Quantity: d("1"), UnitPrice: d("100")},
	))
	require.NoError(t, err)

	_, err = f.svc.MarkExpensePaid(ctx, res.Expense.ID)
	assert.True(t, apperror.IsCode(err, 409), "draft cannot be paid")

	_, err = f.svc.SubmitExpense(ctx, userID, res.Expense.ID)
	require.NoError(t, err)

	approved, err := f.svc.ApproveExpense(ctx, approver, res.Expense.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ExpenseStatusApproved, approved.Status)
	assert.Equal(t, approver, *approved.ApprovedBy)
	assert.Equal(t, "2025-04-10", entity.FormatDate(*approved.ApprovalDate))

	paid, err := f.svc.MarkExpensePaid(ctx, res.Expense.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ExpenseStatusPaid, paid.Status)

	_, err = f.svc.RejectExpense(ctx, res.Expense.ID)
	assert.True(t, apperror.IsCode(err, 409))
}

func TestExpenseBudgetChecks(t *testing.T) {
	f, ctx := newExpenseFixture(t)

	res, err := f.svc.CreateExpense(ctx, uuid.New(), f.input(
		ExpenseDetailInput{ExpenseCategory: enum.ExpenseCategorySupplies, Quantity: d("5"), UnitPrice: d("500")},
	))
	require.NoError(t, err, "overspending is only a warning")
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "exceeds remaining budget 2000.00")

	_, err = f.svc.CreateExpense(ctx, uuid.New(), f.input(
		ExpenseDetailInput{ExpenseCategory: enum.ExpenseCategoryRent, Quantity: d("1"), UnitPrice: d("100")},
	))
	assert.True(t, apperror.IsCode(err, 422), "category without a budget line")

	other := f.input(ExpenseDetailInput{ExpenseCategory: enum.ExpenseCategorySupplies, Quantity: d("1"), UnitPrice: d("1")})
	other.DepartmentID = uuid.New()
	_, err = f.svc.CreateExpense(ctx, uuid.New(), other)
	assert.True(t, apperror.IsCode(err, 422), "unknown department")

	f.budgets.budgets[f.budget.ID].Status = enum.BudgetStatusClosed
	_, err = f.svc.CreateExpense(ctx, uuid.New(), f.input(
		ExpenseDetailInput{ExpenseCategory: enum.ExpenseCategorySupplies, Quantity: d("1"), UnitPrice: d("1")},
	))
	assert.True(t, apperror.IsCode(err, 422), "closed budget")
}
