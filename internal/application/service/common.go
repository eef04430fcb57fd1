package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	infraRepo "github.com/sangkips/stewardpro-api/internal/infrastructure/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
)

// now is swapped in tests
var now = time.Now

// today returns the current date at UTC midnight
func today() time.Time {
	return entity.Time(entity.DateOf(now()))
}

// churchFromContext returns the church bound to the request
func churchFromContext(ctx context.Context) (uuid.UUID, error) {
	churchID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return uuid.Nil, apperror.NewBadRequestError("Church context required")
	}
	return churchID, nil
}

// TaskEnqueuer hands work to the background worker
type TaskEnqueuer interface {
	EnqueueWelcomeSMS(ctx context.Context, churchID, memberID uuid.UUID) error
	EnqueueReceiptSMS(ctx context.Context, churchID, contributionID uuid.UUID) error
	EnqueueBulkSMS(ctx context.Context, churchID uuid.UUID, input *BulkSMSInput) error
	EnqueueRemittanceEmail(ctx context.Context, churchID, remittanceID uuid.UUID) error
}

// documentNamer assigns PREFIX-YYYY-NNNNN names from the naming series
type documentNamer struct {
	seriesRepo repository.NamingSeriesRepository
}

func (n documentNamer) next(ctx context.Context, prefix string, date time.Time) (string, error) {
	year := date.Year()
	seq, err := n.seriesRepo.Next(ctx, entity.SeriesKey(prefix, year))
	if err != nil {
		return "", err
	}
	return entity.FormatDocumentName(prefix, year, seq), nil
}

// requireDraft guards updates and deletes of submitted documents
func requireDraft(doc *entity.Document) error {
	if !doc.IsDraft() {
		return apperror.ErrNotDraft
	}
	return nil
}

// requireSubmitted guards cancel and post-submit transitions
func requireSubmitted(doc *entity.Document) error {
	if !doc.IsSubmitted() {
		return apperror.ErrNotSubmitted
	}
	return nil
}
