package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type remittanceRepository struct {
	db *gorm.DB
}

// NewRemittanceRepository creates a new remittance repository
func NewRemittanceRepository(db *gorm.DB) domainRepo.RemittanceRepository {
	return &remittanceRepository{db: db}
}

func (r *remittanceRepository) Create(ctx context.Context, rem *entity.Remittance) error {
	return r.db.WithContext(ctx).Create(rem).Error
}

func (r *remittanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Remittance, error) {
	var rem entity.Remittance
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&rem, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rem, err
}

func (r *remittanceRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Remittance, error) {
	var rem entity.Remittance
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Items", orderByIdx).
		First(&rem, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rem, err
}

func (r *remittanceRepository) Save(ctx context.Context, rem *entity.Remittance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(rem).Error; err != nil {
			return err
		}
		if err := tx.Where("remittance_id = ?", rem.ID).Delete(&entity.RemittanceItem{}).Error; err != nil {
			return err
		}
		if len(rem.Items) == 0 {
			return nil
		}
		for i := range rem.Items {
			rem.Items[i].RemittanceID = rem.ID
		}
		return tx.Create(&rem.Items).Error
	})
}

func (r *remittanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(TenantScope(ctx)).Delete(&entity.Remittance{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("remittance_id = ?", id).Delete(&entity.RemittanceItem{}).Error
	})
}

func (r *remittanceRepository) List(ctx context.Context, params *domainRepo.RemittanceFilterParams) ([]entity.Remittance, int64, error) {
	var rows []entity.Remittance
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Remittance{}).Scopes(TenantScope(ctx))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.StartDate != nil {
		query = query.Where("remittance_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("remittance_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("remittance_date DESC").
		Find(&rows).Error

	return rows, total, err
}

func (r *remittanceRepository) SumSubmitted(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&entity.Remittance{}).Scopes(TenantScope(ctx)).
		Select("COALESCE(SUM(total_remittance_amount), 0)").
		Where("doc_status = ? AND remittance_date BETWEEN ? AND ?",
			enum.DocStatusSubmitted, entity.DateOf(from), entity.DateOf(to)).
		Scan(&total).Error
	return total, err
}
