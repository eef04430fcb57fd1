package repository

import (
	"context"

	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
)

// MobileMoneyRepository defines the interface for mobile money payment records
type MobileMoneyRepository interface {
	Create(ctx context.Context, p *entity.MobileMoneyPayment) error
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.MobileMoneyPayment, int64, error)
}
