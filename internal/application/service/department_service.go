package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// DepartmentService handles church departments and their hierarchy
type DepartmentService struct {
	deptRepo    repository.DepartmentRepository
	memberRepo  repository.MemberRepository
	budgetRepo  repository.BudgetRepository
	incomeRepo  repository.DepartmentIncomeRepository
	expenseRepo repository.ExpenseRepository
	settings    *SettingsService
}

// NewDepartmentService creates a new department service
func NewDepartmentService(
	deptRepo repository.DepartmentRepository,
	memberRepo repository.MemberRepository,
	budgetRepo repository.BudgetRepository,
	incomeRepo repository.DepartmentIncomeRepository,
	expenseRepo repository.ExpenseRepository,
	settings *SettingsService,
) *DepartmentService {
	return &DepartmentService{
		deptRepo:    deptRepo,
		memberRepo:  memberRepo,
		budgetRepo:  budgetRepo,
		incomeRepo:  incomeRepo,
		expenseRepo: expenseRepo,
		settings:    settings,
	}
}

// DepartmentInput carries the editable department fields
type DepartmentInput struct {
	Name             string
	Code             string
	ParentID         *uuid.UUID
	HeadOfDepartment *uuid.UUID
	BudgetYear       int
	IsActive         bool
	Description      string
}

func (in *DepartmentInput) apply(d *entity.Department) {
	d.Name = in.Name
	d.Code = in.Code
	d.ParentID = in.ParentID
	d.HeadOfDepartment = in.HeadOfDepartment
	d.BudgetYear = in.BudgetYear
	d.IsActive = in.IsActive
	d.Description = in.Description
}

// CreateDepartment creates a department within the package limit
func (s *DepartmentService) CreateDepartment(ctx context.Context, input *DepartmentInput) (*entity.Department, error) {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.deptRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if !entity.Allows(settings.Limits.MaxDepartments, count) {
		return nil, apperror.NewFeatureError(fmt.Sprintf(
			"Department limit of %d reached for the %s package", settings.Limits.MaxDepartments, settings.Package))
	}

	dept := &entity.Department{}
	dept.ID = uuid.New()
	dept.TenantID = churchID
	input.apply(dept)
	if err := s.validate(ctx, dept); err != nil {
		return nil, err
	}

	if err := s.deptRepo.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// validate runs entity rules, then checks code uniqueness, the head and
// that the parent chain never leads back to dept
func (s *DepartmentService) validate(ctx context.Context, dept *entity.Department) error {
	if err := dept.Validate(today().Year()); err != nil {
		return err
	}

	existing, err := s.deptRepo.GetByCode(ctx, dept.Code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != dept.ID {
		return apperror.NewFieldError("department_code", fmt.Sprintf("Department code %s already exists", dept.Code))
	}

	if dept.HeadOfDepartment != nil {
		head, err := s.memberRepo.GetByID(ctx, *dept.HeadOfDepartment)
		if err != nil {
			return err
		}
		if head == nil {
			return apperror.NewFieldError("head_of_department", "Member not found")
		}
	}

	if dept.ParentID == nil {
		return nil
	}
	seen := map[uuid.UUID]bool{dept.ID: true}
	next := dept.ParentID
	for next != nil {
		if seen[*next] {
			return apperror.NewFieldError("parent_department_id", "Parent department would create a cycle")
		}
		seen[*next] = true

		parent, err := s.deptRepo.GetByID(ctx, *next)
		if err != nil {
			return err
		}
		if parent == nil {
			if *next == *dept.ParentID {
				return apperror.NewFieldError("parent_department_id", "Parent department not found")
			}
			break
		}
		next = parent.ParentID
	}
	return nil
}

// GetDepartment retrieves a department by ID
func (s *DepartmentService) GetDepartment(ctx context.Context, id uuid.UUID) (*entity.Department, error) {
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, apperror.NewNotFoundError("Department")
	}
	return dept, nil
}

// UpdateDepartment replaces a department's editable fields
func (s *DepartmentService) UpdateDepartment(ctx context.Context, id uuid.UUID, input *DepartmentInput) (*entity.Department, error) {
	dept, err := s.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}

	input.apply(dept)
	dept.Parent = nil
	dept.Head = nil
	if err := s.validate(ctx, dept); err != nil {
		return nil, err
	}

	if err := s.deptRepo.Update(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// DeleteDepartment removes a department
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetDepartment(ctx, id); err != nil {
		return err
	}
	return s.deptRepo.Delete(ctx, id)
}

// ListDepartments lists departments with search and pagination
func (s *DepartmentService) ListDepartments(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) (*pagination.PaginatedResult[entity.Department], error) {
	depts, total, err := s.deptRepo.List(ctx, params, search, activeOnly)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(depts, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// Tree returns every department nested under its parent
func (s *DepartmentService) Tree(ctx context.Context) ([]entity.Department, error) {
	depts, err := s.deptRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	roots := entity.BuildTree(depts)
	if roots == nil {
		roots = []entity.Department{}
	}
	return roots, nil
}

// HierarchyPath renders the department's ancestry, root first
func (s *DepartmentService) HierarchyPath(ctx context.Context, id uuid.UUID) (string, error) {
	dept, err := s.GetDepartment(ctx, id)
	if err != nil {
		return "", err
	}

	chain := []entity.Department{*dept}
	seen := map[uuid.UUID]bool{dept.ID: true}
	for next := dept.ParentID; next != nil && !seen[*next]; {
		seen[*next] = true
		parent, err := s.deptRepo.GetByID(ctx, *next)
		if err != nil {
			return "", err
		}
		if parent == nil {
			break
		}
		chain = append(chain, *parent)
		next = parent.ParentID
	}
	return entity.HierarchyPath(chain), nil
}

// BudgetUtilization sums a department's submitted budgets
type BudgetUtilization struct {
	DepartmentID       uuid.UUID       `json:"department_id"`
	BudgetCount        int             `json:"budget_count"`
	TotalBudget        decimal.Decimal `json:"total_budget"`
	TotalAllocated     decimal.Decimal `json:"total_allocated"`
	TotalSpent         decimal.Decimal `json:"total_spent"`
	Remaining          decimal.Decimal `json:"remaining"`
	UtilizationPercent decimal.Decimal `json:"utilization_percent"`
	StatusColor        string          `json:"status_color"`
}

// Utilization reports spending across the department's submitted budgets,
// optionally for one fiscal year
func (s *DepartmentService) Utilization(ctx context.Context, id uuid.UUID, fiscalYearID *uuid.UUID) (*BudgetUtilization, error) {
	if _, err := s.GetDepartment(ctx, id); err != nil {
		return nil, err
	}

	budgets, err := s.budgetRepo.ListSubmitted(ctx, fiscalYearID, &id)
	if err != nil {
		return nil, err
	}

	u := &BudgetUtilization{
		DepartmentID:   id,
		BudgetCount:    len(budgets),
		TotalBudget:    decimal.Zero,
		TotalAllocated: decimal.Zero,
		TotalSpent:     decimal.Zero,
	}
	for _, b := range budgets {
		u.TotalBudget = u.TotalBudget.Add(b.TotalBudgetAmount)
		u.TotalAllocated = u.TotalAllocated.Add(b.AllocatedAmount)
		u.TotalSpent = u.TotalSpent.Add(b.SpentAmount)
	}
	u.Remaining = u.TotalBudget.Sub(u.TotalSpent)
	u.UtilizationPercent = decimal.Zero
	if u.TotalBudget.IsPositive() {
		u.UtilizationPercent = u.TotalSpent.Div(u.TotalBudget).Mul(decimal.NewFromInt(100)).Round(2)
	}
	u.StatusColor = entity.UtilizationColor(u.UtilizationPercent)
	return u, nil
}

// DepartmentBalance is a department's income against expenses for a year
type DepartmentBalance struct {
	DepartmentID   uuid.UUID                           `json:"department_id"`
	DepartmentName string                              `json:"department_name"`
	Year           int                                 `json:"year"`
	IncomeByType   map[enum.IncomeType]decimal.Decimal `json:"income_by_type"`
	TotalIncome    decimal.Decimal                     `json:"total_income"`
	TotalExpenses  decimal.Decimal                     `json:"total_expenses"`
	Balance        decimal.Decimal                     `json:"balance"`
}

// Balance totals submitted income and expenses of a calendar year; zero
// year means the current one
func (s *DepartmentService) Balance(ctx context.Context, id uuid.UUID, year int) (*DepartmentBalance, error) {
	dept, err := s.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if year == 0 {
		year = today().Year()
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	byType, err := s.incomeRepo.SumByType(ctx, id, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.SumSubmitted(ctx, &id, from, to)
	if err != nil {
		return nil, err
	}

	income := decimal.Zero
	for _, amt := range byType {
		income = income.Add(amt)
	}
	return &DepartmentBalance{
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		Year:           year,
		IncomeByType:   byType,
		TotalIncome:    income,
		TotalExpenses:  expenses,
		Balance:        income.Sub(expenses),
	}, nil
}
