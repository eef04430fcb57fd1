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

// RemittanceRepository defines the interface for remittance data operations
type RemittanceRepository interface {
	Create(ctx context.Context, r *entity.Remittance) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Remittance, error)

	// GetWithItems loads the remittance with its derived lines
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Remittance, error)

	// Save replaces the remittance row and all of its lines
	Save(ctx context.Context, r *entity.Remittance) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *RemittanceFilterParams) ([]entity.Remittance, int64, error)

	// SumSubmitted totals submitted remittances dated in [from, to]
	SumSubmitted(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

// RemittanceFilterParams contains filtering parameters for remittance queries
type RemittanceFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.RemittanceStatus
	StartDate  *time.Time
	EndDate    *time.Time
}
