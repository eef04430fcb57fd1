package repository

import (
	"context"

	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"gorm.io/gorm"
)

type smsLogRepository struct {
	db *gorm.DB
}

// NewSMSLogRepository creates a new SMS log repository
func NewSMSLogRepository(db *gorm.DB) domainRepo.SMSLogRepository {
	return &smsLogRepository{db: db}
}

func (r *smsLogRepository) Create(ctx context.Context, log *entity.SMSLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListWithCursor pages newest first on (created_at, id)
func (r *smsLogRepository) ListWithCursor(ctx context.Context, params *domainRepo.SMSLogFilterParams) ([]entity.SMSLog, error) {
	var logs []entity.SMSLog

	params.Cursor.Validate()
	cursor, err := params.Cursor.Decode()
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&entity.SMSLog{}).Scopes(TenantScope(ctx))

	if params.SMSType != nil {
		query = query.Where("sms_type = ?", *params.SMSType)
	}

	if params.Phone != "" {
		query = query.Where("phone_number = ?", params.Phone)
	}

	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	err = query.Order("created_at DESC, id DESC").
		Limit(params.Cursor.Limit + 1).
		Find(&logs).Error
	return logs, err
}
