package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
)

// TreasuryBudgetRepository defines the interface for treasury budget roll-ups
type TreasuryBudgetRepository interface {
	// GetByFiscalYear loads the roll-up with its details
	GetByFiscalYear(ctx context.Context, fiscalYearID uuid.UUID) (*entity.TreasuryBudget, error)

	// Save upserts the roll-up and replaces its details
	Save(ctx context.Context, tb *entity.TreasuryBudget) error
}
