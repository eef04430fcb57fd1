package repository

import (
	"context"

	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
)

// SMSLogRepository defines the interface for SMS log data operations
type SMSLogRepository interface {
	Create(ctx context.Context, log *entity.SMSLog) error

	// ListWithCursor returns up to limit+1 rows, newest first
	ListWithCursor(ctx context.Context, params *SMSLogFilterParams) ([]entity.SMSLog, error)
}

// SMSLogFilterParams contains cursor-based filtering for SMS log queries
type SMSLogFilterParams struct {
	Cursor  *pagination.CursorParams
	SMSType *enum.SMSType
	Phone   string
}
