package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// IncomeService records money received by departments
type IncomeService struct {
	incomeRepo repository.DepartmentIncomeRepository
	deptRepo   repository.DepartmentRepository
	namer      documentNamer
}

// NewIncomeService creates a new department income service
func NewIncomeService(
	incomeRepo repository.DepartmentIncomeRepository,
	deptRepo repository.DepartmentRepository,
	seriesRepo repository.NamingSeriesRepository,
) *IncomeService {
	return &IncomeService{
		incomeRepo: incomeRepo,
		deptRepo:   deptRepo,
		namer:      documentNamer{seriesRepo: seriesRepo},
	}
}

// IncomeInput carries the editable income fields
type IncomeInput struct {
	DepartmentID uuid.UUID
	IncomeType   enum.IncomeType
	Amount       decimal.Decimal
	Date         datatypes.Date
	Source       string
	Description  string
}

// CreateIncome records a draft income for an active department
func (s *IncomeService) CreateIncome(ctx context.Context, input *IncomeInput) (*entity.DepartmentIncome, error) {
	churchID, err := churchFromContext(ctx)
	if err != nil {
		return nil, err
	}

	dept, err := s.deptRepo.GetByID(ctx, input.DepartmentID)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, apperror.NewFieldError("department_id", "Department not found")
	}
	if !dept.IsActive {
		return nil, apperror.NewFieldError("department_id", "Department "+dept.Name+" is not active")
	}

	income := &entity.DepartmentIncome{
		DepartmentID:   dept.ID,
		DepartmentCode: dept.Code,
		IncomeType:     input.IncomeType,
		Amount:         input.Amount,
		Date:           input.Date,
		Source:         input.Source,
		Description:    input.Description,
	}
	income.TenantID = churchID
	if err := income.Validate(); err != nil {
		return nil, err
	}

	name, err := s.namer.next(ctx, entity.SeriesIncome, entity.Time(income.Date))
	if err != nil {
		return nil, err
	}
	income.Name = name

	if err := s.incomeRepo.Create(ctx, income); err != nil {
		return nil, err
	}
	return income, nil
}

// GetIncome retrieves an income record by ID
func (s *IncomeService) GetIncome(ctx context.Context, id uuid.UUID) (*entity.DepartmentIncome, error) {
	income, err := s.incomeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if income == nil {
		return nil, apperror.NewNotFoundError("Department income")
	}
	return income, nil
}

// SubmitIncome submits a draft income
func (s *IncomeService) SubmitIncome(ctx context.Context, userID, id uuid.UUID) (*entity.DepartmentIncome, error) {
	income, err := s.GetIncome(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(&income.Document); err != nil {
		return nil, err
	}

	income.MarkSubmitted(userID, now())
	if err := s.incomeRepo.Update(ctx, income); err != nil {
		return nil, err
	}
	return income, nil
}

// CancelIncome cancels a submitted income
func (s *IncomeService) CancelIncome(ctx context.Context, id uuid.UUID) (*entity.DepartmentIncome, error) {
	income, err := s.GetIncome(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireSubmitted(&income.Document); err != nil {
		return nil, err
	}

	income.MarkCancelled(now())
	if err := s.incomeRepo.Update(ctx, income); err != nil {
		return nil, err
	}
	return income, nil
}

// DeleteIncome removes a draft income
func (s *IncomeService) DeleteIncome(ctx context.Context, id uuid.UUID) error {
	income, err := s.GetIncome(ctx, id)
	if err != nil {
		return err
	}
	if err := requireDraft(&income.Document); err != nil {
		return err
	}
	return s.incomeRepo.Delete(ctx, id)
}

// ListIncome lists income records with filters and pagination
func (s *IncomeService) ListIncome(ctx context.Context, params *repository.IncomeFilterParams) (*pagination.PaginatedResult[entity.DepartmentIncome], error) {
	rows, total, err := s.incomeRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(rows, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// IncomeByType totals a department's submitted income per type in [from, to]
func (s *IncomeService) IncomeByType(ctx context.Context, departmentID uuid.UUID, from, to time.Time) (map[enum.IncomeType]decimal.Decimal, error) {
	return s.incomeRepo.SumByType(ctx, departmentID, from, to)
}
