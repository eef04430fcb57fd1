package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The church is passed explicitly rather than read through TenantScope,
// since DeleteExpired runs from the worker with no church at all.
type idempotencyRepository struct {
	db *gorm.DB
}

func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, churchID uuid.UUID, key string) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where(&entity.IdempotencyKey{TenantID: churchID, Key: key}).
		Where("expires_at > ?", time.Now()).
		Take(&ikey).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return &ikey, nil
}

// Create stores the response. A live row for the key is kept; an expired
// one the cleanup job has not reached yet is overwritten.
func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_id", "endpoint", "request_hash", "response_code",
				"content_type", "response_body", "created_at", "expires_at",
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: `"idempotency_keys"."expires_at" <= ?`, Vars: []interface{}{time.Now()}},
			}},
		}).
		Create(ikey).Error
}

// DeleteExpired is run by the cleanup job across every church
func (r *idempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&entity.IdempotencyKey{})
	return res.RowsAffected, res.Error
}
