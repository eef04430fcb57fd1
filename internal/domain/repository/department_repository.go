package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
)

// DepartmentRepository defines the interface for department data operations
type DepartmentRepository interface {
	Create(ctx context.Context, dept *entity.Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Department, error)
	GetByCode(ctx context.Context, code string) (*entity.Department, error)
	Update(ctx context.Context, dept *entity.Department) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) ([]entity.Department, int64, error)
	ListAll(ctx context.Context) ([]entity.Department, error)
	Count(ctx context.Context) (int64, error)
}

// ItemRepository defines the interface for budget item catalogue operations
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, departmentID *uuid.UUID, activeOnly bool) ([]entity.Item, int64, error)
}
