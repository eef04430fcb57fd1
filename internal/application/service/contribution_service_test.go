package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contributionFixture struct {
	svc      *ContributionService
	repo     *fakeContributionRepo
	tasks    *fakeTasks
	settings *fakeSettingsRepo
	member   *entity.Member
}

func newContributionFixture(settings *entity.Settings) *contributionFixture {
	member := &entity.Member{MemberID: "M-001", FirstName: "Neema", LastName: "Mushi", Contact: "0712345678"}
	f := &contributionFixture{
		repo:     newFakeContributionRepo(),
		tasks:    &fakeTasks{},
		settings: &fakeSettingsRepo{settings: settings},
		member:   member,
	}
	settingsSvc := NewSettingsService(f.settings, &fakeChurchRepo{})
	f.svc = NewContributionService(f.repo, newFakeMemberRepo(member), &fakeSeries{}, settingsSvc, f.tasks)
	return f
}

func TestContributionSubmitAssignsReceiptNumbers(t *testing.T) {
	ctx, churchID := churchCtx()
	freezeClock(t, time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))
	f := newContributionFixture(premiumSettings(churchID))
	userID := uuid.New()

	input := &ContributionInput{
		Date:           entity.NewDate(2025, 3, 2),
		MemberID:       &f.member.ID,
		TitheAmount:    d("10000"),
		OfferingAmount: d("5000"),
		PaymentMode:    enum.PaymentModeCash,
	}

	first, err := f.svc.CreateContribution(ctx, userID, input)
	require.NoError(t, err)
	assert.Equal(t, "TAO-2025-00001", first.Name)
	assert.True(t, d("15000").Equal(first.TotalAmount))
	assert.True(t, d("2900").Equal(first.OfferingToField))
	assert.True(t, d("2100").Equal(first.OfferingToChurch))

	second, err := f.svc.CreateContribution(ctx, userID, input)
	require.NoError(t, err)

	first, err = f.svc.SubmitContribution(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "RCP-2025-03-02-0001", first.ReceiptNumber)
	assert.True(t, first.IsSubmitted())

	_, err = f.svc.CancelContribution(ctx, first.ID)
	require.NoError(t, err)

	second, err = f.svc.SubmitContribution(ctx, userID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "RCP-2025-03-02-0002", second.ReceiptNumber, "cancelled receipts keep their number")

	require.Len(t, f.tasks.jobs, 2)
	assert.Equal(t, enqueued{"sms:receipt", first.ID}, f.tasks.jobs[0])
	assert.Equal(t, enqueued{"sms:receipt", second.ID}, f.tasks.jobs[1])
}

func TestContributionSubmitWithoutSMSFeature(t *testing.T) {
	ctx, churchID := churchCtx()
	settings := entity.DefaultSettings("Grace SDA", time.Now())
	settings.TenantID = churchID
	f := newContributionFixture(settings)

	c, err := f.svc.CreateContribution(ctx, uuid.New(), &ContributionInput{
		Date:        entity.DateOf(time.Now()),
		MemberID:    &f.member.ID,
		TitheAmount: d("1000"),
		PaymentMode: enum.PaymentModeMpesa,
	})
	require.NoError(t, err)

	_, err = f.svc.SubmitContribution(ctx, uuid.New(), c.ID)
	require.NoError(t, err)
	assert.Empty(t, f.tasks.jobs)
}

func TestContributionLifecycleGuards(t *testing.T) {
	ctx, churchID := churchCtx()
	f := newContributionFixture(premiumSettings(churchID))
	userID := uuid.New()

	c, err := f.svc.CreateContribution(ctx, userID, &ContributionInput{
		Date:        entity.DateOf(time.Now()),
		TitheAmount: d("500"),
		PaymentMode: enum.PaymentModeCash,
	})
	require.NoError(t, err)

	_, err = f.svc.CancelContribution(ctx, c.ID)
	assert.True(t, apperror.IsCode(err, apperror.ErrNotSubmitted.Code), "draft cannot be cancelled")

	_, err = f.svc.SubmitContribution(ctx, userID, c.ID)
	require.NoError(t, err)
	assert.Empty(t, f.tasks.jobs, "anonymous records get no SMS")

	_, err = f.svc.UpdateContribution(ctx, c.ID, &ContributionInput{Date: entity.DateOf(time.Now()), TitheAmount: d("1")})
	assert.ErrorIs(t, err, apperror.ErrNotDraft)

	_, err = f.svc.GetContribution(ctx, uuid.New())
	assert.True(t, apperror.IsCode(err, 404))
}

func TestContributionRejectsUnknownMemberAndZeroTotal(t *testing.T) {
	ctx, churchID := churchCtx()
	f := newContributionFixture(premiumSettings(churchID))
	missing := uuid.New()

	tests := []struct {
		name  string
		input *ContributionInput
	}{
		{"unknown member", &ContributionInput{Date: entity.DateOf(time.Now()), MemberID: &missing, TitheAmount: d("10")}},
		{"zero total", &ContributionInput{Date: entity.DateOf(time.Now())}},
		{"negative amount", &ContributionInput{Date: entity.DateOf(time.Now()), TitheAmount: d("100"), OfferingAmount: d("-1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateContribution(ctx, uuid.New(), tt.input)
			assert.True(t, apperror.IsCode(err, 422), "got %v", err)
		})
	}
}

func TestContributionSubmitRenumbersTakenReceipt(t *testing.T) {
	ctx, churchID := churchCtx()
	freezeClock(t, time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))
	f := newContributionFixture(premiumSettings(churchID))
	userID := uuid.New()

	c, err := f.svc.CreateContribution(ctx, userID, &ContributionInput{
		Date:        entity.NewDate(2025, 3, 2),
		TitheAmount: d("500"),
		PaymentMode: enum.PaymentModeCash,
	})
	require.NoError(t, err)

	// another clerk's submit claims 0001 after the count was taken
	f.repo.interleave = func() {
		other := &entity.Contribution{Date: entity.NewDate(2025, 3, 2), ReceiptNumber: "RCP-2025-03-02-0001"}
		other.ID = uuid.New()
		other.TenantID = churchID
		f.repo.rows[other.ID] = other
	}

	c, err = f.svc.SubmitContribution(ctx, userID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "RCP-2025-03-02-0002", c.ReceiptNumber)
	assert.True(t, c.IsSubmitted())

	manual, err := f.svc.CreateContribution(ctx, userID, &ContributionInput{
		Date:          entity.NewDate(2025, 3, 2),
		TitheAmount:   d("200"),
		PaymentMode:   enum.PaymentModeCash,
		ReceiptNumber: "RCP-2025-03-02-0002",
	})
	require.NoError(t, err)

	_, err = f.svc.SubmitContribution(ctx, userID, manual.ID)
	assert.True(t, apperror.IsCode(err, 409), "entered receipt numbers are never renumbered")
	stored, err := f.svc.GetContribution(ctx, manual.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsSubmitted())
}
