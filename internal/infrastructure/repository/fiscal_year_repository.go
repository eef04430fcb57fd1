package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"gorm.io/gorm"
)

type fiscalYearRepository struct {
	db *gorm.DB
}

// NewFiscalYearRepository creates a new fiscal year repository
func NewFiscalYearRepository(db *gorm.DB) domainRepo.FiscalYearRepository {
	return &fiscalYearRepository{db: db}
}

func (r *fiscalYearRepository) Create(ctx context.Context, fy *entity.FiscalYear) error {
	return r.db.WithContext(ctx).Create(fy).Error
}

func (r *fiscalYearRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.FiscalYear, error) {
	var fy entity.FiscalYear
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&fy, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &fy, err
}

func (r *fiscalYearRepository) Update(ctx context.Context, fy *entity.FiscalYear) error {
	return r.db.WithContext(ctx).Save(fy).Error
}

func (r *fiscalYearRepository) List(ctx context.Context) ([]entity.FiscalYear, error) {
	var years []entity.FiscalYear
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Order("year_start_date DESC").
		Find(&years).Error
	return years, err
}

func (r *fiscalYearRepository) GetCovering(ctx context.Context, date time.Time) (*entity.FiscalYear, error) {
	var fy entity.FiscalYear
	day := entity.DateOf(date)
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("disabled = ? AND year_start_date <= ? AND year_end_date >= ?", false, day, day).
		Order("year_start_date DESC").
		First(&fy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &fy, err
}

func (r *fiscalYearRepository) GetLatest(ctx context.Context) (*entity.FiscalYear, error) {
	var fy entity.FiscalYear
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Order("year_end_date DESC").
		First(&fy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &fy, err
}
