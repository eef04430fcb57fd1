package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// BudgetService handles department budgets and their approval workflow
type BudgetService struct {
	budgetRepo     repository.BudgetRepository
	deptRepo       repository.DepartmentRepository
	itemRepo       repository.ItemRepository
	fiscalYearRepo repository.FiscalYearRepository
	treasury       *TreasuryService
	settings       *SettingsService
	namer          documentNamer
}

// NewBudgetService creates a new department budget service
func NewBudgetService(
	budgetRepo repository.BudgetRepository,
	deptRepo repository.DepartmentRepository,
	itemRepo repository.ItemRepository,
	fiscalYearRepo repository.FiscalYearRepository,
	seriesRepo repository.NamingSeriesRepository,
	treasury *TreasuryService,
	settings *SettingsService,
) *BudgetService {
	return &BudgetService{
		budgetRepo:     budgetRepo,
		deptRepo:       deptRepo,
		itemRepo:       itemRepo,
		fiscalYearRepo: fiscalYearRepo,
		treasury:       treasury,
		settings:       settings,
		namer:          documentNamer{seriesRepo: seriesRepo},
	}
}

// BudgetInput carries the editable budget fields
type BudgetInput struct {
	DepartmentID      uuid.UUID
	FiscalYearID      uuid.UUID
	BudgetPeriod      enum.BudgetPeriod
	TotalBudgetAmount decimal.Decimal
	Description       string
	Notes             string
	Items             []BudgetItemInput
}

// BudgetItemInput is one budget line as entered
type BudgetItemInput struct {
	ItemID          *uuid.UUID
	ExpenseCategory enum.ExpenseCategory
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
}

// apply copies input onto budget and checks the department, fiscal year
// and linked items
func (s *BudgetService) apply(ctx context.Context, budget *entity.DepartmentBudget, in *BudgetInput) error {
	dept, err := s.deptRepo.GetByID(ctx, in.DepartmentID)
	if err != nil {
		return err
	}
	if dept == nil {
		return apperror.NewFieldError("department_id", "Department not found")
	}

	fy, err := s.fiscalYearRepo.GetByID(ctx, in.FiscalYearID)
	if err != nil {
		return err
	}
	if fy == nil {
		return apperror.NewFieldError("fiscal_year_id", "Fiscal year not found")
	}
	if fy.Disabled {
		return apperror.NewFieldError("fiscal_year_id", fmt.Sprintf("Fiscal year %s is disabled", fy.Year))
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return err
	}
	if limit := settings.Limits.MaxBudgetItems; limit != entity.Unlimited && len(in.Items) > limit {
		return apperror.NewFeatureError(fmt.Sprintf(
			"Budget item limit of %d reached for the %s package", limit, settings.Package))
	}

	var itemIDs []uuid.UUID
	for _, li := range in.Items {
		if li.ItemID != nil {
			itemIDs = append(itemIDs, *li.ItemID)
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

	lines := make([]entity.DepartmentBudgetItem, 0, len(in.Items))
	for i, li := range in.Items {
		line := entity.DepartmentBudgetItem{
			BudgetID:        budget.ID,
			ItemID:          li.ItemID,
			ExpenseCategory: li.ExpenseCategory,
			Description:     li.Description,
			Quantity:        li.Quantity,
			UnitPrice:       li.UnitPrice,
		}
		if li.ItemID != nil {
			it, ok := catalogue[*li.ItemID]
			if !ok {
				return apperror.NewFieldError(fmt.Sprintf("items[%d].item_id", i), "Item not found")
			}
			if it.DepartmentID != dept.ID {
				return apperror.NewFieldError(fmt.Sprintf("items[%d].item_id", i), fmt.Sprintf(
					"Item %s does not belong to department %s", it.ItemName, dept.Name))
			}
			if line.ExpenseCategory == "" {
				line.ExpenseCategory = it.DefaultCategory
			}
		}
		lines = append(lines, line)
	}

	budget.DepartmentID = dept.ID
	budget.FiscalYearID = fy.ID
	budget.BudgetPeriod = in.BudgetPeriod
	if budget.BudgetPeriod == "" {
		budget.BudgetPeriod = enum.BudgetPeriodAnnual
	}
	budget.TotalBudgetAmount = in.TotalBudgetAmount
	budget.Description = in.Description
	budget.Notes = in.Notes
	budget.Items = lines
	budget.Department = nil
	budget.FiscalYear = nil
	return budget.Validate()
}

// CreateBudget records a draft budget
func (s *BudgetService) CreateBudget(ctx context.Context, userID uuid.UUID, input *BudgetInput) (*entity.DepartmentBudget, error) {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	budget := &entity.DepartmentBudget{
		Status:    enum.BudgetStatusDraft,
		CreatedBy: &userID,
	}
	budget.ID = uuid.New()
	budget.TenantID = churchID
	if err := s.apply(ctx, budget, input); err != nil {
		return nil, err
	}

	name, err := s.namer.next(ctx, entity.SeriesBudget, today())
	if err != nil {
		return nil, err
	}
	budget.Name = name

	if err := s.budgetRepo.Create(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// GetBudget retrieves a budget with its lines
func (s *BudgetService) GetBudget(ctx context.Context, id uuid.UUID) (*entity.DepartmentBudget, error) {
	budget, err := s.budgetRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, apperror.NewNotFoundError("Department budget")
	}
	return budget, nil
}

// UpdateBudget replaces a draft budget's fields and lines
func (s *BudgetService) UpdateBudget(ctx context.Context, id uuid.UUID, input *BudgetInput) (*entity.DepartmentBudget, error) {
	budget, err := s.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(&budget.Document); err != nil {
		return nil, err
	}

	if err := s.apply(ctx, budget, input); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Save(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget removes a draft budget
func (s *BudgetService) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if budget == nil {
		return apperror.NewNotFoundError("Department budget")
	}
	if err := requireDraft(&budget.Document); err != nil {
		return err
	}
	return s.budgetRepo.Delete(ctx, id)
}

// SubmitBudget approves and activates a draft budget, then refreshes the
// treasury roll-up
func (s *BudgetService) SubmitBudget(ctx context.Context, userID, id uuid.UUID) (*entity.DepartmentBudget, error) {
	return s.transition(ctx, id, func(budget *entity.DepartmentBudget) error {
		if err := requireDraft(&budget.Document); err != nil {
			return err
		}
		if err := budget.Validate(); err != nil {
			return err
		}

		// Approved is the pre-submit state; submitting activates the budget.
		budget.MarkSubmitted(userID, now())
		budget.Status = enum.BudgetStatusActive
		return nil
	})
}

// CancelBudget returns a submitted budget to draft status and removes it
// from the treasury roll-up
func (s *BudgetService) CancelBudget(ctx context.Context, id uuid.UUID) (*entity.DepartmentBudget, error) {
	return s.transition(ctx, id, func(budget *entity.DepartmentBudget) error {
		if err := requireSubmitted(&budget.Document); err != nil {
			return err
		}
		budget.MarkCancelled(now())
		budget.Status = enum.BudgetStatusDraft
		return nil
	})
}

// CloseBudget closes an active budget to further spending
func (s *BudgetService) CloseBudget(ctx context.Context, id uuid.UUID) (*entity.DepartmentBudget, error) {
	return s.transition(ctx, id, func(budget *entity.DepartmentBudget) error {
		if !budget.IsSubmitted() || budget.Status != enum.BudgetStatusActive {
			return apperror.NewConflictError("Only active budgets can be closed")
		}
		budget.Status = enum.BudgetStatusClosed
		return nil
	})
}

// transition applies fn to the budget under its row lock, so spend posted
// by concurrent expenses is never overwritten, then re-syncs the treasury
// roll-up. A failed sync is logged; the next submit or read rebuilds it.
func (s *BudgetService) transition(ctx context.Context, id uuid.UUID, fn func(*entity.DepartmentBudget) error) (*entity.DepartmentBudget, error) {
	budget, err := s.budgetRepo.Transition(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, apperror.NewNotFoundError("Department budget")
	}

	if _, err := s.treasury.Sync(ctx, budget.FiscalYearID); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("budget", budget.Name).Msg("failed to sync treasury budget")
	}
	return s.GetBudget(ctx, id)
}

// ListBudgets lists budgets with filters and pagination
func (s *BudgetService) ListBudgets(ctx context.Context, params *repository.BudgetFilterParams) (*pagination.PaginatedResult[entity.DepartmentBudget], error) {
	rows, total, err := s.budgetRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(rows, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// ActiveBudgetItems returns the lines of an active budget for expense entry
func (s *BudgetService) ActiveBudgetItems(ctx context.Context, id uuid.UUID) ([]entity.DepartmentBudgetItem, error) {
	budget, err := s.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if !budget.IsSubmitted() || budget.Status != enum.BudgetStatusActive {
		return nil, apperror.NewConflictError(fmt.Sprintf("Budget %s is not active", budget.Name))
	}
	return budget.Items, nil
}
