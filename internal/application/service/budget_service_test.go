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

type budgetFixture struct {
	svc      *BudgetService
	treasury *TreasuryService
	budgets  *fakeBudgetRepo
	depts    *fakeDeptRepo
	items    *fakeItemRepo
	settings *fakeSettingsRepo
	youth    *entity.Department
	music    *entity.Department
	fy       entity.FiscalYear
	chairs   entity.Item
	piano    entity.Item
}

func newBudgetFixture(t *testing.T) (*budgetFixture, context.Context) {
	t.Helper()
	ctx, churchID := churchCtx()
	freezeClock(t, time.Date(2025, 4, 10, 8, 0, 0, 0, time.UTC))

	youth := &entity.Department{Name: "Youth", Code: "YTH", IsActive: true}
	youth.ID = uuid.New()
	youth.TenantID = churchID
	music := &entity.Department{Name: "Music", Code: "MUS", IsActive: true}
	music.ID = uuid.New()
	music.TenantID = churchID

	fy := entity.FiscalYear{
		Year:          "2025",
		YearStartDate: entity.NewDate(2025, 1, 1),
		YearEndDate:   entity.NewDate(2025, 12, 31),
	}
	fy.ID = uuid.New()
	fy.TenantID = churchID

	chairs := entity.Item{ItemName: "Chairs", DepartmentID: youth.ID, DefaultCategory: enum.ExpenseCategoryEquipment, IsActive: true}
	chairs.ID = uuid.New()
	piano := entity.Item{ItemName: "Piano", DepartmentID: music.ID, DefaultCategory: enum.ExpenseCategoryEquipment, IsActive: true}
	piano.ID = uuid.New()

	budgets := &fakeBudgetRepo{budgets: make(map[uuid.UUID]*entity.DepartmentBudget)}
	depts := newFakeDeptRepo(youth, music)
	items := &fakeItemRepo{items: []entity.Item{chairs, piano}}
	years := &fakeFiscalYearRepo{years: []entity.FiscalYear{fy}}
	settings := &fakeSettingsRepo{settings: premiumSettings(churchID)}

	treasury := NewTreasuryService(&fakeTreasuryRepo{}, budgets, years)
	svc := NewBudgetService(budgets, depts, items, years, &fakeSeries{}, treasury,
		NewSettingsService(settings, &fakeChurchRepo{}))

	return &budgetFixture{
		svc:      svc,
		treasury: treasury,
		budgets:  budgets,
		depts:    depts,
		items:    items,
		settings: settings,
		youth:    youth,
		music:    music,
		fy:       fy,
		chairs:   chairs,
		piano:    piano,
	}, ctx
}

func (f *budgetFixture) input(lines ...BudgetItemInput) *BudgetInput {
	return &BudgetInput{
		DepartmentID:      f.youth.ID,
		FiscalYearID:      f.fy.ID,
		BudgetPeriod:      enum.BudgetPeriodAnnual,
		TotalBudgetAmount: d("10000"),
		Items:             lines,
	}
}

// activeBudget creates and submits a youth budget with a travel line
func (f *budgetFixture) activeBudget(t *testing.T, ctx context.Context) *entity.DepartmentBudget {
	t.Helper()
	b, err := f.svc.CreateBudget(ctx, uuid.New(), f.input(
		BudgetItemInput{ExpenseCategory: enum.ExpenseCategoryTravel, Quantity: d("1"), UnitPrice: d("3000")},
	))
	require.NoError(t, err)
	b, err = f.svc.SubmitBudget(ctx, uuid.New(), b.ID)
	require.NoError(t, err)
	return b
}

func TestBudgetCreateValidation(t *testing.T) {
	unknown := uuid.New()

	tests := []struct {
		name  string
		setup func(f *budgetFixture)
		lines func(f *budgetFixture) []BudgetItemInput
		code  int
		field string
	}{
		{
			name: "item from another department",
			lines: func(f *budgetFixture) []BudgetItemInput {
				return []BudgetItemInput{{ItemID: &f.piano.ID, Quantity: d("1"), UnitPrice: d("500")}}
			},
			code:  422,
			field: "items[0].item_id",
		},
		{
			name: "unknown item",
			lines: func(f *budgetFixture) []BudgetItemInput {
				return []BudgetItemInput{
					{ExpenseCategory: enum.ExpenseCategoryTravel, Quantity: d("1"), UnitPrice: d("100")},
					{ItemID: &unknown, Quantity: d("1"), UnitPrice: d("100")},
				}
			},
			code:  422,
			field: "items[1].item_id",
		},
		{
			name: "lines over the package limit",
			setup: func(f *budgetFixture) {
				f.settings.settings.Limits.MaxBudgetItems = 1
			},
			lines: func(f *budgetFixture) []BudgetItemInput {
				return []BudgetItemInput{
					{ExpenseCategory: enum.ExpenseCategoryTravel, Quantity: d("1"), UnitPrice: d("100")},
					{ExpenseCategory: enum.ExpenseCategorySupplies, Quantity: d("1"), UnitPrice: d("100")},
				}
			},
			code: 402,
		},
		{
			name: "allocation above total",
			lines: func(f *budgetFixture) []BudgetItemInput {
				return []BudgetItemInput{{ExpenseCategory: enum.ExpenseCategoryTravel, Quantity: d("2"), UnitPrice: d("6000")}}
			},
			code:  422,
			field: "items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ctx := newBudgetFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.svc.CreateBudget(ctx, uuid.New(), f.input(tt.lines(f)...))
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, tt.code), "got %v", err)
			if tt.field != "" {
				assert.Equal(t, tt.field, apperror.GetAppError(err).Errors[0].Field)
			}
			assert.Empty(t, f.budgets.budgets)
		})
	}
}

func TestBudgetLinkedItemDefaultsCategory(t *testing.T) {
	f, ctx := newBudgetFixture(t)

	b, err := f.svc.CreateBudget(ctx, uuid.New(), f.input(
		BudgetItemInput{ItemID: &f.chairs.ID, Quantity: d("20"), UnitPrice: d("150")},
	))
	require.NoError(t, err)
	assert.Equal(t, "BUD-2025-00001", b.Name)
	assert.Equal(t, enum.BudgetStatusDraft, b.Status)
	require.Len(t, b.Items, 1)
	assert.Equal(t, enum.ExpenseCategoryEquipment, b.Items[0].ExpenseCategory)
	assert.Equal(t, "3000.00", b.AllocatedAmount.StringFixed(2))
}

func TestBudgetSubmitThenCancelResyncsTreasury(t *testing.T) {
	f, ctx := newBudgetFixture(t)

	b := f.activeBudget(t, ctx)
	assert.Equal(t, enum.BudgetStatusActive, b.Status)
	assert.True(t, b.IsSubmitted())

	roll, err := f.treasury.Get(ctx, f.fy.ID)
	require.NoError(t, err)
	assert.Equal(t, "10000.00", roll.TotalAllocated.StringFixed(2))
	require.Len(t, roll.Details, 1)
	assert.Equal(t, f.youth.ID, roll.Details[0].DepartmentID)
	assert.Equal(t, 1, roll.Details[0].BudgetCount)

	cancelled, err := f.svc.CancelBudget(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.BudgetStatusDraft, cancelled.Status)
	assert.True(t, cancelled.IsCancelled())

	roll, err = f.treasury.Get(ctx, f.fy.ID)
	require.NoError(t, err)
	assert.True(t, roll.TotalAllocated.IsZero())
	assert.Empty(t, roll.Details)

	_, err = f.svc.CloseBudget(ctx, b.ID)
	assert.True(t, apperror.IsCode(err, 409))
	_, err = f.svc.ActiveBudgetItems(ctx, b.ID)
	assert.True(t, apperror.IsCode(err, 409))
}

func TestBudgetTransitionsAreGuarded(t *testing.T) {
	f, ctx := newBudgetFixture(t)

	draft, err := f.svc.CreateBudget(ctx, uuid.New(), f.input(
		BudgetItemInput{ExpenseCategory: enum.ExpenseCategoryTravel, Quantity: d("1"), UnitPrice: d("3000")},
	))
	require.NoError(t, err)

	_, err = f.svc.CancelBudget(ctx, draft.ID)
	assert.ErrorIs(t, err, apperror.ErrNotSubmitted)
	_, err = f.svc.CloseBudget(ctx, draft.ID)
	assert.True(t, apperror.IsCode(err, 409))
	_, err = f.svc.SubmitBudget(ctx, uuid.New(), uuid.New())
	assert.True(t, apperror.IsCode(err, 404))

	_, err = f.svc.SubmitBudget(ctx, uuid.New(), draft.ID)
	require.NoError(t, err)
	_, err = f.svc.SubmitBudget(ctx, uuid.New(), draft.ID)
	assert.ErrorIs(t, err, apperror.ErrNotDraft)
}

func TestTreasuryGetUnknownFiscalYear(t *testing.T) {
	f, ctx := newBudgetFixture(t)

	_, err := f.treasury.Get(ctx, uuid.New())
	assert.True(t, apperror.IsCode(err, 404))
}

func TestBudgetStatusChangeKeepsConcurrentSpend(t *testing.T) {
	tests := []struct {
		name   string
		change func(f *budgetFixture, ctx context.Context, id uuid.UUID) (*entity.DepartmentBudget, error)
		status enum.BudgetStatus
	}{
		{
			name: "close",
			change: func(f *budgetFixture, ctx context.Context, id uuid.UUID) (*entity.DepartmentBudget, error) {
				return f.svc.CloseBudget(ctx, id)
			},
			status: enum.BudgetStatusClosed,
		},
		{
			name: "cancel",
			change: func(f *budgetFixture, ctx context.Context, id uuid.UUID) (*entity.DepartmentBudget, error) {
				return f.svc.CancelBudget(ctx, id)
			},
			status: enum.BudgetStatusDraft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ctx := newBudgetFixture(t)
			userID := uuid.New()
			b := f.activeBudget(t, ctx)

			expenses := NewExpenseService(
				&fakeExpenseRepo{expenses: make(map[uuid.UUID]*entity.DepartmentExpense), budgets: f.budgets},
				f.depts, f.budgets, f.items, &fakeSeries{})
			res, err := expenses.CreateExpense(ctx, userID, &ExpenseInput{
				DepartmentID: f.youth.ID,
				BudgetID:     &b.ID,
				ExpenseDate:  entity.NewDate(2025, 4, 9),
				PaymentMode:  enum.PaymentModeCash,
				Details: []ExpenseDetailInput{
					{ExpenseCategory: enum.ExpenseCategoryTravel, Quantity: d("2"), UnitPrice: d("500")},
				},
			})
			require.NoError(t, err)

			// the expense commits while the status change is in flight
			f.budgets.interleave = func() {
				_, err := expenses.SubmitExpense(ctx, userID, res.Expense.ID)
				require.NoError(t, err)
			}

			changed, err := tt.change(f, ctx, b.ID)
			require.NoError(t, err)
			assert.Nil(t, f.budgets.interleave)
			assert.Equal(t, tt.status, changed.Status)
			assert.Equal(t, "1000.00", changed.SpentAmount.StringFixed(2))

			stored := f.budgets.budgets[b.ID]
			assert.Equal(t, "1000.00", stored.SpentAmount.StringFixed(2))
			assert.Equal(t, "1000.00", stored.LineForCategory(enum.ExpenseCategoryTravel).SpentAmount.StringFixed(2))
		})
	}
}
