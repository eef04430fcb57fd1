package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/stewardpro-api/internal/config"
)

type fakeServices struct {
	calls []string
	err   error
}

func (f *fakeServices) AutoCreateAll(ctx context.Context) (int, error) {
	f.calls = append(f.calls, "fiscal")
	return 2, f.err
}

func (f *fakeServices) CheckAllSubscriptions(ctx context.Context) (int, error) {
	f.calls = append(f.calls, "subscriptions")
	return 1, nil
}

func (f *fakeServices) ResetMonthlyUsage(ctx context.Context) (int64, error) {
	f.calls = append(f.calls, "reset")
	return 7, nil
}

func (f *fakeServices) SendWeeklyAll(ctx context.Context) (int, error) {
	f.calls = append(f.calls, "weekly")
	return 3, nil
}

func testConfig() *config.SchedulerConfig {
	return &config.SchedulerConfig{
		Enabled:          true,
		FiscalYearSpec:   "0 1 * * *",
		SubscriptionSpec: "30 0 * * *",
		WeeklySMSSpec:    "0 0 * * 6",
		MonthlyResetSpec: "0 0 1 * *",
	}
}

func TestJobsRunTheirServices(t *testing.T) {
	svc := &fakeServices{}
	logger := zerolog.Nop()
	jobs := Jobs(testConfig(), svc, svc, svc)
	require.Len(t, jobs, 4)

	s, err := New(&logger, jobs...)
	require.NoError(t, err)

	want := map[string]int{
		"fiscal_year_auto_create": 2,
		"subscription_check":      1,
		"weekly_sms":              3,
		"monthly_sms_reset":       7,
	}
	for _, job := range jobs {
		n, err := s.RunNow(context.Background(), job)
		require.NoError(t, err)
		assert.Equal(t, want[job.Name], n, job.Name)
	}
	assert.Equal(t, []string{"fiscal", "subscriptions", "weekly", "reset"}, svc.calls)
}

func TestRunNowReturnsJobError(t *testing.T) {
	svc := &fakeServices{err: errors.New("db down")}
	logger := zerolog.Nop()
	s, err := New(&logger)
	require.NoError(t, err)

	_, err = s.RunNow(context.Background(), Jobs(testConfig(), svc, svc, svc)[0])
	assert.EqualError(t, err, "db down")
}

func TestNewRejectsBadSpec(t *testing.T) {
	logger := zerolog.Nop()
	_, err := New(&logger, Job{Name: "broken", Spec: "every day", Run: func(context.Context) (int, error) { return 0, nil }})
	assert.ErrorContains(t, err, "schedule broken")
}

type fakeStore struct {
	deleted int64
	err     error
}

func (f *fakeStore) DeleteExpired(ctx context.Context) (int64, error) {
	return f.deleted, f.err
}

func TestCleanup(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("sums every store", func(t *testing.T) {
		job := Cleanup("0 3 * * *", &fakeStore{deleted: 12}, &fakeStore{deleted: 3})
		s, err := New(&logger, job)
		require.NoError(t, err)

		n, err := s.RunNow(context.Background(), job)
		require.NoError(t, err)
		assert.Equal(t, "expired_cleanup", job.Name)
		assert.Equal(t, 15, n)
	})

	t.Run("keeps going past a failing store", func(t *testing.T) {
		boom := errors.New("connection reset")
		job := Cleanup("0 3 * * *", &fakeStore{err: boom}, &fakeStore{deleted: 4})
		s, err := New(&logger, job)
		require.NoError(t, err)

		n, err := s.RunNow(context.Background(), job)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 4, n)
	})
}
