package repository

import (
	"context"

	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"gorm.io/gorm"
)

type mobileMoneyRepository struct {
	db *gorm.DB
}

// NewMobileMoneyRepository creates a new mobile money payment repository
func NewMobileMoneyRepository(db *gorm.DB) domainRepo.MobileMoneyRepository {
	return &mobileMoneyRepository{db: db}
}

func (r *mobileMoneyRepository) Create(ctx context.Context, p *entity.MobileMoneyPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *mobileMoneyRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.MobileMoneyPayment, int64, error) {
	var payments []entity.MobileMoneyPayment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.MobileMoneyPayment{}).Scopes(TenantScope(ctx))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, total, err
}
