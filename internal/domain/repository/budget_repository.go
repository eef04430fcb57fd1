package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
)

// BudgetRepository defines the interface for department budget data operations
type BudgetRepository interface {
	Create(ctx context.Context, budget *entity.DepartmentBudget) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DepartmentBudget, error)

	// GetWithItems loads the budget with its lines in order
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.DepartmentBudget, error)

	// Save replaces the budget row and all of its lines
	Save(ctx context.Context, budget *entity.DepartmentBudget) error

	// Transition locks the budget row, loads its lines, applies fn and
	// writes the budget back in place. Nothing is written when fn fails.
	Transition(ctx context.Context, id uuid.UUID, fn func(budget *entity.DepartmentBudget) error) (*entity.DepartmentBudget, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *BudgetFilterParams) ([]entity.DepartmentBudget, int64, error)

	// ListSubmitted returns submitted budgets, optionally per fiscal year or department
	ListSubmitted(ctx context.Context, fiscalYearID, departmentID *uuid.UUID) ([]entity.DepartmentBudget, error)
}

// BudgetFilterParams contains filtering parameters for budget queries
type BudgetFilterParams struct {
	Pagination   *pagination.PaginationParams
	DepartmentID *uuid.UUID
	FiscalYearID *uuid.UUID
	Status       *enum.BudgetStatus
}
