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

// BudgetMutation changes an expense and its locked budget together
type BudgetMutation func(expense *entity.DepartmentExpense, budget *entity.DepartmentBudget) error

// ExpenseRepository defines the interface for department expense data operations
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.DepartmentExpense) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DepartmentExpense, error)

	// GetWithDetails loads the expense with its lines in order
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.DepartmentExpense, error)

	// Save replaces the expense row and all of its lines
	Save(ctx context.Context, expense *entity.DepartmentExpense) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ExpenseFilterParams) ([]entity.DepartmentExpense, int64, error)

	// MutateWithBudget runs fn in one transaction with the referenced budget
	// row locked FOR UPDATE, then saves both. budget is nil when the expense
	// has no budget reference.
	MutateWithBudget(ctx context.Context, expenseID uuid.UUID, fn BudgetMutation) (*entity.DepartmentExpense, error)

	// SumSubmitted totals submitted expenses in [from, to], optionally per department
	SumSubmitted(ctx context.Context, departmentID *uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

// ExpenseFilterParams contains filtering parameters for expense queries
type ExpenseFilterParams struct {
	Pagination   *pagination.PaginationParams
	DepartmentID *uuid.UUID
	BudgetID     *uuid.UUID
	Status       *enum.ExpenseStatus
	StartDate    *time.Time
	EndDate      *time.Time
}
