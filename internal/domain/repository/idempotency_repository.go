package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
)

// IdempotencyRepository stores replayable responses per church
type IdempotencyRepository interface {
	// GetByKey returns the live entry for the key, or nil
	GetByKey(ctx context.Context, churchID uuid.UUID, key string) (*entity.IdempotencyKey, error)
	// Create keeps the first entry when two retries race
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	DeleteExpired(ctx context.Context) (int64, error)
}
