package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type remittanceFixture struct {
	svc           *RemittanceService
	repo          *fakeRemittanceRepo
	contributions *fakeContributionRepo
	settings      *fakeSettingsRepo
	tasks         *fakeTasks
}

func newRemittanceFixture(t *testing.T) (*remittanceFixture, context.Context) {
	t.Helper()
	ctx, churchID := churchCtx()
	freezeClock(t, time.Date(2025, 4, 10, 8, 0, 0, 0, time.UTC))

	repo := &fakeRemittanceRepo{rows: make(map[uuid.UUID]*entity.Remittance)}
	contributions := newFakeContributionRepo()
	settings := &fakeSettingsRepo{settings: premiumSettings(churchID)}
	tasks := &fakeTasks{}

	return &remittanceFixture{
		svc:           NewRemittanceService(repo, contributions, &fakeSeries{}, NewSettingsService(settings, &fakeChurchRepo{}), tasks),
		repo:          repo,
		contributions: contributions,
		settings:      settings,
		tasks:         tasks,
	}, ctx
}

func remittanceInput() *RemittanceInput {
	return &RemittanceInput{
		OrganizationName:      "East Conference",
		RemittanceDate:        entity.NewDate(2025, 4, 10),
		RemittancePeriod:      enum.RemittancePeriodMonthly,
		TitheAmount:           d("1200"),
		OfferingToFieldAmount: d("300"),
	}
}

func TestRemittancePreview(t *testing.T) {
	tests := []struct {
		name   string
		period enum.RemittancePeriod
		from   string
	}{
		{"weekly", enum.RemittancePeriodWeekly, "2025-04-04"},
		{"monthly", enum.RemittancePeriodMonthly, "2025-03-10"},
		{"default is monthly", "", "2025-03-10"},
		{"quarterly", enum.RemittancePeriodQuarterly, "2025-01-10"},
		{"annual", enum.RemittancePeriodAnnual, "2024-04-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ctx := newRemittanceFixture(t)
			f.contributions.totals = &repository.ContributionTotals{
				Tithe:           d("1000"),
				OfferingToField: d("580"),
				Campmeeting:     d("100"),
				ChurchBuilding:  d("50"),
				Count:           3,
			}

			p, err := f.svc.Preview(ctx, entity.NewDate(2025, 4, 10), tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.from, p.PeriodFrom)
			assert.Equal(t, "2025-04-10", p.PeriodTo)
			assert.Equal(t, tt.from, f.contributions.window[0].Format("2006-01-02"))
			assert.Equal(t, "1000.00", p.TitheAmount.StringFixed(2))
			assert.Equal(t, "150.00", p.SpecialOfferingsAmount.StringFixed(2))
			assert.Equal(t, "1730.00", p.TotalRemittanceAmount.StringFixed(2))
			assert.Equal(t, int64(3), p.ContributionCount)
		})
	}
}

func TestRemittancePreviewRejectsUnknownPeriod(t *testing.T) {
	f, ctx := newRemittanceFixture(t)

	_, err := f.svc.Preview(ctx, entity.NewDate(2025, 4, 10), enum.RemittancePeriod("Fortnightly"))
	require.Error(t, err)
	assert.Equal(t, "remittance_period", apperror.GetAppError(err).Errors[0].Field)
}

func TestRemittanceCreateFromPreview(t *testing.T) {
	f, ctx := newRemittanceFixture(t)

	_, err := f.svc.CreateFromPreview(ctx, uuid.New(), remittanceInput())
	assert.True(t, apperror.IsCode(err, 400), "empty period has nothing to remit")

	f.contributions.totals = &repository.ContributionTotals{
		Tithe:          d("1000"),
		Campmeeting:    d("100"),
		ChurchBuilding: d("50"),
		Count:          2,
	}
	r, err := f.svc.CreateFromPreview(ctx, uuid.New(), remittanceInput())
	require.NoError(t, err)
	assert.Equal(t, "REM-2025-00001", r.Name)
	assert.Equal(t, "1000.00", r.TitheAmount.StringFixed(2))
	assert.True(t, r.OfferingToFieldAmount.IsZero())
	assert.Equal(t, "1150.00", r.TotalRemittanceAmount.StringFixed(2))
	assert.Len(t, r.Items, 2, "zero amounts get no line")
}

func TestRemittanceSubmitApprovesAndQueuesEmail(t *testing.T) {
	tests := []struct {
		name        string
		ownEmail    string
		churchEmail string
		queued      bool
	}{
		{"remittance address", "treasury@conference.org", "", true},
		{"church fallback", "", "office@grace.org", true},
		{"nobody to notify", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ctx := newRemittanceFixture(t)
			f.settings.settings.NotificationEmail = tt.churchEmail
			userID := uuid.New()

			in := remittanceInput()
			in.NotificationEmail = tt.ownEmail
			r, err := f.svc.CreateRemittance(ctx, userID, in)
			require.NoError(t, err)
			assert.Equal(t, enum.RemittanceStatusDraft, r.Status)
			assert.Empty(t, f.tasks.jobs)

			submitted, err := f.svc.SubmitRemittance(ctx, userID, r.ID)
			require.NoError(t, err)
			assert.True(t, submitted.IsSubmitted())
			assert.Equal(t, enum.RemittanceStatusApproved, submitted.Status)
			require.NotNil(t, submitted.ApprovedBy)
			assert.Equal(t, userID, *submitted.ApprovedBy)
			require.NotNil(t, submitted.ApprovalDate)
			assert.Equal(t, "2025-04-10", entity.FormatDate(*submitted.ApprovalDate))
			assert.Equal(t, "1500.00", submitted.TotalRemittanceAmount.StringFixed(2))

			if tt.queued {
				assert.Equal(t, []enqueued{{"email:remittance", r.ID}}, f.tasks.jobs)
			} else {
				assert.Empty(t, f.tasks.jobs)
			}
		})
	}
}

func TestRemittanceSentReceivedAndCancel(t *testing.T) {
	f, ctx := newRemittanceFixture(t)
	userID := uuid.New()

	r, err := f.svc.CreateRemittance(ctx, userID, remittanceInput())
	require.NoError(t, err)

	_, err = f.svc.MarkSent(ctx, r.ID, "TRX-1")
	assert.True(t, apperror.IsCode(err, 409), "draft cannot be sent")

	_, err = f.svc.SubmitRemittance(ctx, userID, r.ID)
	require.NoError(t, err)
	_, err = f.svc.MarkReceived(ctx, r.ID)
	assert.True(t, apperror.IsCode(err, 409), "approved must be sent first")

	sent, err := f.svc.MarkSent(ctx, r.ID, "TRX-1")
	require.NoError(t, err)
	assert.Equal(t, enum.RemittanceStatusSent, sent.Status)
	assert.Equal(t, "TRX-1", sent.ReferenceNumber)

	received, err := f.svc.MarkReceived(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.RemittanceStatusReceived, received.Status)

	cancelled, err := f.svc.CancelRemittance(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled())
	assert.Equal(t, enum.RemittanceStatusDraft, cancelled.Status)

	_, err = f.svc.SubmitRemittance(ctx, userID, r.ID)
	assert.ErrorIs(t, err, apperror.ErrNotDraft)
}
