package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	infraRepo "github.com/sangkips/stewardpro-api/internal/infrastructure/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type smsFixture struct {
	svc           *SMSService
	settings      *fakeSettingsRepo
	logs          *fakeSMSLogRepo
	sender        *fakeSender
	tasks         *fakeTasks
	contributions *fakeContributionRepo
	members       []*entity.Member
}

func newSMSFixture(settings *entity.Settings, church *entity.Church) *smsFixture {
	members := []*entity.Member{
		{MemberID: "M-001", FirstName: "Amani", LastName: "Kweka", Contact: "0712000001", Status: enum.MemberStatusActive},
		{MemberID: "M-002", FirstName: "Baraka", LastName: "Lema", Contact: "+255712000002", Status: enum.MemberStatusActive},
		{MemberID: "M-003", FirstName: "Chiku", LastName: "Moshi", Status: enum.MemberStatusActive},
	}
	f := &smsFixture{
		settings:      &fakeSettingsRepo{settings: settings},
		logs:          &fakeSMSLogRepo{},
		sender:        &fakeSender{fail: map[string]bool{}},
		tasks:         &fakeTasks{},
		contributions: newFakeContributionRepo(),
		members:       members,
	}
	churches := &fakeChurchRepo{}
	if church != nil {
		churches.churches = []entity.Church{*church}
	}
	f.svc = NewSMSService(
		NewSettingsService(f.settings, churches),
		f.logs,
		newFakeMemberRepo(members...),
		f.contributions,
		churches,
		f.sender,
		f.tasks,
	)
	return f
}

func (f *smsFixture) memberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(f.members))
	for i, m := range f.members {
		ids[i] = m.ID
	}
	return ids
}

func TestSendBulkCustomMessage(t *testing.T) {
	ctx, churchID := churchCtx()
	f := newSMSFixture(premiumSettings(churchID), nil)
	f.sender.fail["255712000002"] = true

	res, err := f.svc.SendBulk(ctx, &BulkSMSInput{Type: BulkCustom, Message: "Camp meeting starts Friday", MemberIDs: f.memberIDs()})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, []string{"255712000001"}, f.sender.sent)
	assert.Equal(t, 1, f.settings.settings.SMSUsedThisMonth)

	require.Len(t, f.logs.logs, 2, "members without a phone are not attempted")
	assert.Equal(t, entity.SMSStatusSuccess, f.logs.logs[0].Status)
	assert.Equal(t, enum.SMSTypeBulk, f.logs.logs[0].SMSType)
	assert.Equal(t, entity.SMSStatusFailedPrefix+"HTTP 400: invalid number", f.logs.logs[1].Status)
	assert.Equal(t, churchID, f.logs.logs[1].TenantID)
}

func TestSendBulkRefusals(t *testing.T) {
	ctx, churchID := churchCtx()

	exhausted := premiumSettings(churchID)
	exhausted.SMSUsedThisMonth = exhausted.Limits.SMSMonthlyQuota - 1

	starter := entity.DefaultSettings("Grace SDA", time.Now())
	starter.TenantID = churchID

	tests := []struct {
		name     string
		settings *entity.Settings
		input    func(f *smsFixture) *BulkSMSInput
		code     int
	}{
		{"quota exhausted", exhausted, func(f *smsFixture) *BulkSMSInput {
			return &BulkSMSInput{Type: BulkWelcome, MemberIDs: f.memberIDs()}
		}, apperror.ErrSMSQuotaExceeded.Code},
		{"feature not in package", starter, func(f *smsFixture) *BulkSMSInput {
			return &BulkSMSInput{Type: BulkWelcome, MemberIDs: f.memberIDs()}
		}, 402},
		{"custom without text", premiumSettings(churchID), func(f *smsFixture) *BulkSMSInput {
			return &BulkSMSInput{Type: BulkCustom, MemberIDs: f.memberIDs()}
		}, 422},
		{"unknown type", premiumSettings(churchID), func(f *smsFixture) *BulkSMSInput {
			return &BulkSMSInput{Type: "promo", MemberIDs: f.memberIDs()}
		}, 422},
		{"no recipients", premiumSettings(churchID), func(f *smsFixture) *BulkSMSInput {
			return &BulkSMSInput{Type: BulkReceipt}
		}, 422},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSMSFixture(tt.settings, nil)
			_, err := f.svc.SendBulk(ctx, tt.input(f))
			assert.True(t, apperror.IsCode(err, tt.code), "got %v", err)
			assert.Empty(t, f.sender.sent)

			err = f.svc.QueueBulk(ctx, tt.input(f))
			assert.Error(t, err)
			assert.Empty(t, f.tasks.bulk)
		})
	}
}

func TestQueueBulkHandsOffToWorker(t *testing.T) {
	ctx, churchID := churchCtx()
	f := newSMSFixture(premiumSettings(churchID), nil)

	input := &BulkSMSInput{Type: BulkWelcome, MemberIDs: f.memberIDs()}
	require.NoError(t, f.svc.QueueBulk(ctx, input))
	require.Len(t, f.tasks.bulk, 1)
	assert.Same(t, input, f.tasks.bulk[0])
	assert.Empty(t, f.sender.sent)
}

func TestSendReceipt(t *testing.T) {
	ctx, churchID := churchCtx()
	f := newSMSFixture(premiumSettings(churchID), nil)

	member := f.members[0]
	c := &entity.Contribution{
		Name:          "TAO-2025-00007",
		Date:          entity.NewDate(2025, 6, 7),
		MemberID:      &member.ID,
		Member:        member,
		TitheAmount:   d("20000"),
		ReceiptNumber: "RCP-2025-06-07-0003",
	}
	c.TenantID = churchID
	c.DocStatus = enum.DocStatusSubmitted
	c.Calculate()
	require.NoError(t, f.contributions.Create(ctx, c))

	entry, err := f.svc.SendReceipt(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, enum.SMSTypeReceipt, entry.SMSType)
	assert.Equal(t, "TAO-2025-00007", entry.ReferenceDoc)
	assert.Equal(t, "Thank you Amani Kweka! Receipt #RCP-2025-06-07-0003 07/06/2025 Total: 20000.00. God bless! - Church", entry.Message)
	assert.Equal(t, `{"status":"ok"}`, string(entry.GatewayResponse))

	entry, err = f.svc.SendReceipt(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, entry, "missing records are skipped")
}

func TestSendWeeklyStopsAtQuota(t *testing.T) {
	churchID := uuid.New()
	church := &entity.Church{ID: churchID, Name: "Grace SDA"}
	settings := premiumSettings(churchID)
	settings.SMSUsedThisMonth = settings.Limits.SMSMonthlyQuota - 1

	f := newSMSFixture(settings, church)
	f.contributions.totals = &repository.ContributionTotals{Total: d("150000")}

	sent, err := f.svc.SendWeeklyAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, f.logs.logs, 1)
	assert.Equal(t, enum.SMSTypeWeekly, f.logs.logs[0].SMSType)
	assert.Contains(t, f.logs.logs[0].Message, "Grace SDA received 150000.00")
}

func TestSendWeeklySkipsWhenNotConfigured(t *testing.T) {
	ctx, churchID := churchCtx()
	settings := premiumSettings(churchID)
	settings.SMSAPISecret = ""
	f := newSMSFixture(settings, nil)

	sent, err := f.svc.SendWeekly(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, f.logs.logs)
}

func TestSendWelcomeNeedsChurch(t *testing.T) {
	f := newSMSFixture(premiumSettings(uuid.New()), nil)
	_, err := f.svc.SendWelcome(infraRepo.WithSkipTenantScope(context.Background(), true), f.members[0].ID)
	assert.True(t, apperror.IsCode(err, 400))
}
