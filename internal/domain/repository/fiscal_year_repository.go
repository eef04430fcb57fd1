package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
)

// FiscalYearRepository defines the interface for fiscal year data operations
type FiscalYearRepository interface {
	Create(ctx context.Context, fy *entity.FiscalYear) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.FiscalYear, error)
	Update(ctx context.Context, fy *entity.FiscalYear) error
	List(ctx context.Context) ([]entity.FiscalYear, error)

	// GetCovering returns the enabled fiscal year containing date
	GetCovering(ctx context.Context, date time.Time) (*entity.FiscalYear, error)

	// GetLatest returns the fiscal year with the latest end date
	GetLatest(ctx context.Context) (*entity.FiscalYear, error)
}
