package repository

import (
	"context"

	"github.com/sangkips/stewardpro-api/internal/domain/entity"
)

// SettingsRepository defines the interface for StewardPro settings data access
type SettingsRepository interface {
	// Get returns the settings of the church in context, nil when none exist yet
	Get(ctx context.Context) (*entity.Settings, error)
	Create(ctx context.Context, settings *entity.Settings) error
	Update(ctx context.Context, settings *entity.Settings) error

	// IncrementSMSUsed atomically adds n to this month's SMS counter
	IncrementSMSUsed(ctx context.Context, n int) error

	// ResetAllSMSUsage zeroes the SMS counter of every church
	ResetAllSMSUsage(ctx context.Context) (int64, error)
}
