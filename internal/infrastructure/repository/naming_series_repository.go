package repository

import (
	"context"
	"errors"

	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"gorm.io/gorm"
)

var errNoChurch = errors.New("no church in context")

type namingSeriesRepository struct {
	db *gorm.DB
}

// NewNamingSeriesRepository creates a new naming series repository
func NewNamingSeriesRepository(db *gorm.DB) domainRepo.NamingSeriesRepository {
	return &namingSeriesRepository{db: db}
}

// Next bumps the counter for key and returns the new value
func (r *namingSeriesRepository) Next(ctx context.Context, key string) (int64, error) {
	tenantID, ok := GetTenantID(ctx)
	if !ok {
		return 0, errNoChurch
	}

	var current int64
	err := r.db.WithContext(ctx).Raw(`INSERT INTO naming_series (tenant_id, prefix, current)
		VALUES (?, ?, 1)
		ON CONFLICT (tenant_id, prefix) DO UPDATE SET current = naming_series.current + 1
		RETURNING current`, tenantID, key).
		Scan(&current).Error
	return current, err
}
