package repository

import (
	"context"
	"errors"

	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) domainRepo.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves the settings row of the church in context
func (r *settingsRepository) Get(ctx context.Context) (*entity.Settings, error) {
	var settings entity.Settings
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Create creates the settings row
func (r *settingsRepository) Create(ctx context.Context, settings *entity.Settings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

// Update updates the settings row
func (r *settingsRepository) Update(ctx context.Context, settings *entity.Settings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

// IncrementSMSUsed adds n to the monthly SMS counter in one statement
func (r *settingsRepository) IncrementSMSUsed(ctx context.Context, n int) error {
	return r.db.WithContext(ctx).Model(&entity.Settings{}).Scopes(TenantScope(ctx)).
		UpdateColumn("sms_used_this_month", gorm.Expr("sms_used_this_month + ?", n)).Error
}

// ResetAllSMSUsage zeroes the counter for every church
func (r *settingsRepository) ResetAllSMSUsage(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Settings{}).
		Where("sms_used_this_month > 0").
		UpdateColumn("sms_used_this_month", 0)
	return res.RowsAffected, res.Error
}
