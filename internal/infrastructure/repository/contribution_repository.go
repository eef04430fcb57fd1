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
)

type contributionRepository struct {
	db *gorm.DB
}

// NewContributionRepository creates a new tithes and offerings repository
func NewContributionRepository(db *gorm.DB) domainRepo.ContributionRepository {
	return &contributionRepository{db: db}
}

func (r *contributionRepository) Create(ctx context.Context, c *entity.Contribution) error {
	return r.db.WithContext(ctx).Omit("Member").Create(c).Error
}

func (r *contributionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Contribution, error) {
	var c entity.Contribution
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Member").
		First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *contributionRepository) Update(ctx context.Context, c *entity.Contribution) error {
	err := r.db.WithContext(ctx).Omit("Member").Save(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateReceipt
	}
	return err
}

func (r *contributionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.Contribution{}, "id = ?", id).Error
}

func (r *contributionRepository) List(ctx context.Context, params *domainRepo.ContributionFilterParams) ([]entity.Contribution, int64, error) {
	var rows []entity.Contribution
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Contribution{}).Scopes(TenantScope(ctx))

	if params.MemberID != nil {
		query = query.Where("member_id = ?", *params.MemberID)
	}

	if params.PaymentMode != nil {
		query = query.Where("payment_mode = ?", *params.PaymentMode)
	}

	if params.DocStatus != nil {
		query = query.Where("doc_status = ?", *params.DocStatus)
	}

	if params.StartDate != nil {
		query = query.Where("date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Member").
		Order("date DESC, created_at DESC").
		Find(&rows).Error

	return rows, total, err
}

func (r *contributionRepository) CountOnDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Contribution{}).Scopes(TenantScope(ctx)).
		Where("date = ? AND receipt_number <> ''", entity.DateOf(date)).
		Count(&count).Error
	return count, err
}

type contributionSums struct {
	Tithe           decimal.Decimal
	Offering        decimal.Decimal
	OfferingToField decimal.Decimal
	Campmeeting     decimal.Decimal
	ChurchBuilding  decimal.Decimal
	Total           decimal.Decimal
	Count           int64
}

func (r *contributionRepository) SumSubmitted(ctx context.Context, from, to time.Time) (*domainRepo.ContributionTotals, error) {
	var sums contributionSums
	err := r.db.WithContext(ctx).Model(&entity.Contribution{}).Scopes(TenantScope(ctx)).
		Select(`COALESCE(SUM(tithe_amount), 0) AS tithe,
			COALESCE(SUM(offering_amount), 0) AS offering,
			COALESCE(SUM(offering_to_field), 0) AS offering_to_field,
			COALESCE(SUM(campmeeting_offering), 0) AS campmeeting,
			COALESCE(SUM(church_building_offering), 0) AS church_building,
			COALESCE(SUM(total_amount), 0) AS total,
			COUNT(*) AS count`).
		Where("doc_status = ? AND date BETWEEN ? AND ?", enum.DocStatusSubmitted, entity.DateOf(from), entity.DateOf(to)).
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	return &domainRepo.ContributionTotals{
		Tithe:           sums.Tithe,
		Offering:        sums.Offering,
		OfferingToField: sums.OfferingToField,
		Campmeeting:     sums.Campmeeting,
		ChurchBuilding:  sums.ChurchBuilding,
		Total:           sums.Total,
		Count:           sums.Count,
	}, nil
}

func (r *contributionRepository) ListSubmitted(ctx context.Context, from, to time.Time, memberID *uuid.UUID) ([]entity.Contribution, error) {
	var rows []entity.Contribution
	query := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("doc_status = ? AND date BETWEEN ? AND ?", enum.DocStatusSubmitted, entity.DateOf(from), entity.DateOf(to))
	if memberID != nil {
		query = query.Where("member_id = ?", *memberID)
	}
	err := query.Preload("Member").Order("date ASC, receipt_number ASC").Find(&rows).Error
	return rows, err
}
