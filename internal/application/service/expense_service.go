package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/metrics"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ExpenseService handles department expenses and their effect on budgets
type ExpenseService struct {
	expenseRepo repository.ExpenseRepository
	deptRepo    repository.DepartmentRepository
	budgetRepo  repository.BudgetRepository
	itemRepo    repository.ItemRepository
	namer       documentNamer
}

// NewExpenseService creates a new department expense service
func NewExpenseService(
	expenseRepo repository.ExpenseRepository,
	deptRepo repository.DepartmentRepository,
	budgetRepo repository.BudgetRepository,
	itemRepo repository.ItemRepository,
	seriesRepo repository.NamingSeriesRepository,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		deptRepo:    deptRepo,
		budgetRepo:  budgetRepo,
		itemRepo:    itemRepo,
		namer:       documentNamer{seriesRepo: seriesRepo},
	}
}

// ExpenseInput carries the editable expense fields
type ExpenseInput struct {
	DepartmentID    uuid.UUID
	BudgetID        *uuid.UUID
	ExpenseDate     datatypes.Date
	PaymentMode     enum.PaymentMode
	Vendor          string
	InvoiceNumber   string
	ReceiptNumber   string
	ReferenceNumber string
	Notes           string
	Details         []ExpenseDetailInput
}

// ExpenseDetailInput is one expense line as entered
type ExpenseDetailInput struct {
	ItemID          *uuid.UUID
	ExpenseCategory enum.ExpenseCategory
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
}

// ExpenseResult is an expense plus any over-budget warnings
type ExpenseResult struct {
	Expense  *entity.DepartmentExpense `json:"expense"`
	Warnings []string                  `json:"warnings,omitempty"`
}

func (s *ExpenseService) apply(ctx context.Context, e *entity.DepartmentExpense, in *ExpenseInput) error {
	var itemIDs []uuid.UUID
	for _, d := range in.Details {
		if d.ItemID != nil {
			itemIDs = append(itemIDs, *d.ItemID)
		}
	}
	catalogue := make(map[uuid.UUID]entity.Item)
	if len(itemIDs) > 0 {
		items, err := s.itemRepo.GetByIDs(ctx, itemIDs)
		if err != nil {
			return err
		}
		for _, it := range items {
			catalogue[it.ID] = it
		}
	}

	details := make([]entity.DepartmentExpenseDetail, 0, len(in.Details))
	for i, d := range in.Details {
		line := entity.DepartmentExpenseDetail{
			ExpenseID:       e.ID,
			ItemID:          d.ItemID,
			ExpenseCategory: d.ExpenseCategory,
			Description:     d.Description,
			Quantity:        d.Quantity,
			UnitPrice:       d.UnitPrice,
		}
		if d.ItemID != nil {
			it, ok := catalogue[*d.ItemID]
			if !ok {
				return apperror.NewFieldError(fmt.Sprintf("details[%d].item_id", i), "Item not found")
			}
			if line.ExpenseCategory == "" {
				line.ExpenseCategory = it.DefaultCategory
			}
		}
		details = append(details, line)
	}

	e.DepartmentID = in.DepartmentID
	e.BudgetID = in.BudgetID
	e.ExpenseDate = in.ExpenseDate
	e.PaymentMode = in.PaymentMode
	e.Vendor = in.Vendor
	e.InvoiceNumber = in.InvoiceNumber
	e.ReceiptNumber = in.ReceiptNumber
	e.ReferenceNumber = in.ReferenceNumber
	e.Notes = in.Notes
	e.Details = details
	e.Department = nil
	e.Budget = nil
	return nil
}

// validate runs entity rules and checks the department and budget
// reference. Overspending only produces warnings.
func (s *ExpenseService) validate(ctx context.Context, e *entity.DepartmentExpense) ([]string, error) {
	if err := e.Validate(today()); err != nil {
		return nil, err
	}

	dept, err := s.deptRepo.GetByID(ctx, e.DepartmentID)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, apperror.NewFieldError("department_id", "Department not found")
	}

	if e.BudgetID == nil {
		return nil, nil
	}
	budget, err := s.activeBudget(ctx, *e.BudgetID, e.DepartmentID)
	if err != nil {
		return nil, err
	}
	for _, d := range e.Details {
		if budget.LineForCategory(d.ExpenseCategory) == nil {
			return nil, apperror.NewFieldError("details", fmt.Sprintf(
				"Budget %s has no line for category %s", budget.Name, d.ExpenseCategory))
		}
	}
	return e.BudgetWarnings(budget), nil
}

// activeBudget loads a budget that expenses of departmentID may draw on
func (s *ExpenseService) activeBudget(ctx context.Context, budgetID, departmentID uuid.UUID) (*entity.DepartmentBudget, error) {
	budget, err := s.budgetRepo.GetWithItems(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, apperror.NewFieldError("budget_reference", "Budget not found")
	}
	if !budget.IsSubmitted() || budget.Status != enum.BudgetStatusActive {
		return nil, apperror.NewFieldError("budget_reference", fmt.Sprintf("Budget %s is not active", budget.Name))
	}
	if budget.DepartmentID != departmentID {
		return nil, apperror.NewFieldError("budget_reference", "Budget belongs to a different department")
	}
	return budget, nil
}

// CreateExpense records a draft expense
func (s *ExpenseService) CreateExpense(ctx context.Context, userID uuid.UUID, input *ExpenseInput) (*ExpenseResult, error) {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	expense := &entity.DepartmentExpense{
		Status:    enum.ExpenseStatusDraft,
		CreatedBy: &userID,
	}
	expense.ID = uuid.New()
	expense.TenantID = churchID
	if err := s.apply(ctx, expense, input); err != nil {
		return nil, err
	}
	warnings, err := s.validate(ctx, expense)
	if err != nil {
		return nil, err
	}

	name, err := s.namer.next(ctx, entity.SeriesExpense, entity.Time(expense.ExpenseDate))
	if err != nil {
		return nil, err
	}
	expense.Name = name

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return &ExpenseResult{Expense: expense, Warnings: warnings}, nil
}

// GetExpense retrieves an expense with its lines
func (s *ExpenseService) GetExpense(ctx context.Context, id uuid.UUID) (*entity.DepartmentExpense, error) {
	expense, err := s.expenseRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, apperror.NewNotFoundError("Department expense")
	}
	return expense, nil
}

// UpdateExpense replaces a draft expense's fields and lines
func (s *ExpenseService) UpdateExpense(ctx context.Context, id uuid.UUID, input *ExpenseInput) (*ExpenseResult, error) {
	expense, err := s.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(&expense.Document); err != nil {
		return nil, err
	}

	if err := s.apply(ctx, expense, input); err != nil {
		return nil, err
	}
	warnings, err := s.validate(ctx, expense)
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	return &ExpenseResult{Expense: expense, Warnings: warnings}, nil
}

// DeleteExpense removes a draft expense
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return apperror.NewNotFoundError("Department expense")
	}
	if err := requireDraft(&expense.Document); err != nil {
		return err
	}
	return s.expenseRepo.Delete(ctx, id)
}

// SubmitExpense sends a draft for approval and charges each line to the
// budget line of the same category, all under the budget row lock
func (s *ExpenseService) SubmitExpense(ctx context.Context, userID, id uuid.UUID) (*ExpenseResult, error) {
	expense, err := s.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(&expense.Document); err != nil {
		return nil, err
	}
	warnings, err := s.validate(ctx, expense)
	if err != nil {
		return nil, err
	}

	charged := false
	updated, err := s.expenseRepo.MutateWithBudget(ctx, id, func(e *entity.DepartmentExpense, b *entity.DepartmentBudget) error {
		if err := requireDraft(&e.Document); err != nil {
			return err
		}
		e.Recalculate()
		if b != nil {
			if b.Status != enum.BudgetStatusActive {
				return apperror.NewFieldError("budget_reference", fmt.Sprintf("Budget %s is not active", b.Name))
			}
			if err := b.ApplyExpense(e); err != nil {
				return err
			}
			charged = true
		}
		e.Status = enum.ExpenseStatusPendingApproval
		e.MarkSubmitted(userID, now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.NewNotFoundError("Department expense")
	}
	if charged {
		metrics.RecordBudgetSpend("submit")
	}
	return &ExpenseResult{Expense: updated, Warnings: warnings}, nil
}

// CancelExpense cancels a submitted expense and gives its spend back to
// the budget. Rejected expenses were already given back.
func (s *ExpenseService) CancelExpense(ctx context.Context, id uuid.UUID) (*entity.DepartmentExpense, error) {
	reversed := false
	updated, err := s.expenseRepo.MutateWithBudget(ctx, id, func(e *entity.DepartmentExpense, b *entity.DepartmentBudget) error {
		if err := requireSubmitted(&e.Document); err != nil {
			return err
		}
		if b != nil && e.Status != enum.ExpenseStatusRejected {
			if err := b.ReverseExpense(e); err != nil {
				return err
			}
			reversed = true
		}
		e.MarkCancelled(now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.NewNotFoundError("Department expense")
	}
	if reversed {
		metrics.RecordBudgetSpend("cancel")
	}
	return updated, nil
}

// ApproveExpense approves an expense pending approval
func (s *ExpenseService) ApproveExpense(ctx context.Context, userID, id uuid.UUID) (*entity.DepartmentExpense, error) {
	expense, err := s.submittedWithStatus(ctx, id, enum.ExpenseStatusPendingApproval)
	if err != nil {
		return nil, err
	}

	d := entity.DateOf(today())
	expense.Status = enum.ExpenseStatusApproved
	expense.ApprovedBy = &userID
	expense.ApprovalDate = &d
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// RejectExpense rejects an expense pending approval and releases its spend
func (s *ExpenseService) RejectExpense(ctx context.Context, id uuid.UUID) (*entity.DepartmentExpense, error) {
	reversed := false
	updated, err := s.expenseRepo.MutateWithBudget(ctx, id, func(e *entity.DepartmentExpense, b *entity.DepartmentBudget) error {
		if !e.IsSubmitted() || e.Status != enum.ExpenseStatusPendingApproval {
			return apperror.NewConflictError(fmt.Sprintf("Expense must be %s to reject", enum.ExpenseStatusPendingApproval))
		}
		if b != nil {
			if err := b.ReverseExpense(e); err != nil {
				return err
			}
			reversed = true
		}
		e.Status = enum.ExpenseStatusRejected
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.NewNotFoundError("Department expense")
	}
	if reversed {
		metrics.RecordBudgetSpend("cancel")
	}
	return updated, nil
}

// MarkExpensePaid records payment of an approved expense
func (s *ExpenseService) MarkExpensePaid(ctx context.Context, id uuid.UUID) (*entity.DepartmentExpense, error) {
	expense, err := s.submittedWithStatus(ctx, id, enum.ExpenseStatusApproved)
	if err != nil {
		return nil, err
	}

	expense.Status = enum.ExpenseStatusPaid
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) submittedWithStatus(ctx context.Context, id uuid.UUID, status enum.ExpenseStatus) (*entity.DepartmentExpense, error) {
	expense, err := s.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if !expense.IsSubmitted() || expense.Status != status {
		return nil, apperror.NewConflictError(fmt.Sprintf("Expense must be %s, it is %s", status, expense.Status))
	}
	expense.Department = nil
	expense.Budget = nil
	for i := range expense.Details {
		expense.Details[i].Item = nil
	}
	return expense, nil
}

// ListExpenses lists expenses with filters and pagination
func (s *ExpenseService) ListExpenses(ctx context.Context, params *repository.ExpenseFilterParams) (*pagination.PaginatedResult[entity.DepartmentExpense], error) {
	rows, total, err := s.expenseRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(rows, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// BudgetImpactLine is one category's budget position before and after an expense
type BudgetImpactLine struct {
	ExpenseCategory enum.ExpenseCategory `json:"expense_category"`
	Budgeted        decimal.Decimal      `json:"budgeted_amount"`
	RemainingBefore decimal.Decimal      `json:"remaining_before"`
	Amount          decimal.Decimal      `json:"expense_amount"`
	RemainingAfter  decimal.Decimal      `json:"remaining_after"`
	OverBudget      bool                 `json:"over_budget"`
	HasBudgetLine   bool                 `json:"has_budget_line"`
}

// BudgetImpact previews what an expense would do to its budget, per category
func (s *ExpenseService) BudgetImpact(ctx context.Context, input *ExpenseInput) ([]BudgetImpactLine, error) {
	if input.BudgetID == nil {
		return nil, apperror.NewFieldError("budget_reference", "Budget reference is required")
	}

	expense := &entity.DepartmentExpense{}
	if err := s.apply(ctx, expense, input); err != nil {
		return nil, err
	}
	expense.Recalculate()

	budget, err := s.activeBudget(ctx, *input.BudgetID, input.DepartmentID)
	if err != nil {
		return nil, err
	}

	order, sums := expense.AmountByCategory()
	lines := make([]BudgetImpactLine, 0, len(order))
	for _, cat := range order {
		line := BudgetImpactLine{ExpenseCategory: cat, Amount: sums[cat]}
		if li := budget.LineForCategory(cat); li != nil {
			line.HasBudgetLine = true
			line.Budgeted = li.BudgetedAmount
			line.RemainingBefore = li.RemainingAmount
		}
		line.RemainingAfter = line.RemainingBefore.Sub(line.Amount)
		line.OverBudget = line.RemainingAfter.IsNegative()
		lines = append(lines, line)
	}
	return lines, nil
}
