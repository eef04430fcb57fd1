package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// DepartmentIncomeRepository defines the interface for department income data operations
type DepartmentIncomeRepository interface {
	Create(ctx context.Context, income *entity.DepartmentIncome) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DepartmentIncome, error)
	Update(ctx context.Context, income *entity.DepartmentIncome) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *IncomeFilterParams) ([]entity.DepartmentIncome, int64, error)

	// SumByType totals submitted income per type for a department in [from, to]
	SumByType(ctx context.Context, departmentID uuid.UUID, from, to time.Time) (map[enum.IncomeType]decimal.Decimal, error)
}

// IncomeFilterParams contains filtering parameters for income queries
type IncomeFilterParams struct {
	Pagination   *pagination.PaginationParams
	DepartmentID *uuid.UUID
	IncomeType   *enum.IncomeType
	StartDate    *time.Time
	EndDate      *time.Time
}
