package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ErrDuplicateReceipt is returned by Update when the church has already
// issued the record's receipt number
var ErrDuplicateReceipt = errors.New("receipt number already issued")

// ContributionRepository defines the interface for tithe and offering data operations
type ContributionRepository interface {
	Create(ctx context.Context, c *entity.Contribution) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Contribution, error)
	Update(ctx context.Context, c *entity.Contribution) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ContributionFilterParams) ([]entity.Contribution, int64, error)

	// CountOnDate counts receipts already issued on a date, cancelled ones included
	CountOnDate(ctx context.Context, date time.Time) (int64, error)

	// SumSubmitted totals submitted contributions in [from, to]
	SumSubmitted(ctx context.Context, from, to time.Time) (*ContributionTotals, error)

	// ListSubmitted returns submitted contributions in [from, to], oldest first,
	// optionally for one member
	ListSubmitted(ctx context.Context, from, to time.Time, memberID *uuid.UUID) ([]entity.Contribution, error)

}

// ContributionFilterParams contains filtering parameters for contribution queries
type ContributionFilterParams struct {
	Pagination  *pagination.PaginationParams
	MemberID    *uuid.UUID
	PaymentMode *enum.PaymentMode
	DocStatus   *enum.DocStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// ContributionTotals are the column sums of a set of contributions
type ContributionTotals struct {
	Tithe           decimal.Decimal
	Offering        decimal.Decimal
	OfferingToField decimal.Decimal
	Campmeeting     decimal.Decimal
	ChurchBuilding  decimal.Decimal
	Total           decimal.Decimal
	Count           int64
}

// Special is campmeeting plus building offerings
func (t *ContributionTotals) Special() decimal.Decimal {
	return t.Campmeeting.Add(t.ChurchBuilding)
}
