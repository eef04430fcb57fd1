// Package scheduler runs the periodic church-wide jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/sangkips/stewardpro-api/internal/config"
	"github.com/sangkips/stewardpro-api/pkg/metrics"
)

const runTimeout = 10 * time.Minute

// Job is one scheduled run; it returns how many records it touched
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) (int, error)
}

// FiscalYears creates the next fiscal year where one is due
type FiscalYears interface {
	AutoCreateAll(ctx context.Context) (int, error)
}

// Subscriptions expires lapsed subscriptions and resets SMS counters
type Subscriptions interface {
	CheckAllSubscriptions(ctx context.Context) (int, error)
	ResetMonthlyUsage(ctx context.Context) (int64, error)
}

// WeeklySMS sends the weekly giving summary
type WeeklySMS interface {
	SendWeeklyAll(ctx context.Context) (int, error)
}

// Jobs lists the standard schedule
func Jobs(cfg *config.SchedulerConfig, fy FiscalYears, subs Subscriptions, weekly WeeklySMS) []Job {
	return []Job{
		{Name: "fiscal_year_auto_create", Spec: cfg.FiscalYearSpec, Run: fy.AutoCreateAll},
		{Name: "subscription_check", Spec: cfg.SubscriptionSpec, Run: subs.CheckAllSubscriptions},
		{Name: "weekly_sms", Spec: cfg.WeeklySMSSpec, Run: weekly.SendWeeklyAll},
		{Name: "monthly_sms_reset", Spec: cfg.MonthlyResetSpec, Run: func(ctx context.Context) (int, error) {
			n, err := subs.ResetMonthlyUsage(ctx)
			return int(n), err
		}},
	}
}

// Expirable is a store whose rows lapse, such as idempotency keys and
// password reset tokens
type Expirable interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Cleanup purges expired rows from every store on spec. A failing store
// does not stop the others.
func Cleanup(spec string, stores ...Expirable) Job {
	return Job{Name: "expired_cleanup", Spec: spec, Run: func(ctx context.Context) (int, error) {
		var total int64
		var errs []error
		for _, store := range stores {
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			total += n
		}
		return int(total), errors.Join(errs...)
	}}
}

// Scheduler wraps a cron runner. Overlapping runs of the same job are
// skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *zerolog.Logger
}

// New registers the jobs; schedules are evaluated in UTC
func New(logger *zerolog.Logger, jobs ...Job) (*Scheduler, error) {
	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	s := &Scheduler{cron: c, logger: logger}
	for _, job := range jobs {
		if _, err := c.AddFunc(job.Spec, s.wrap(job)); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", job.Name, job.Spec, err)
		}
		logger.Info().Str("job", job.Name).Str("spec", job.Spec).Msg("job scheduled")
	}
	return s, nil
}

func (s *Scheduler) wrap(job Job) func() {
	return func() {
		s.RunNow(context.Background(), job)
	}
}

// RunNow executes a job once with the scheduler's logging and metrics
func (s *Scheduler) RunNow(ctx context.Context, job Job) (int, error) {
	logger := s.logger.With().Str("job", job.Name).Logger()
	ctx, cancel := context.WithTimeout(logger.WithContext(ctx), runTimeout)
	defer cancel()

	started := time.Now()
	n, err := job.Run(ctx)
	metrics.RecordJobRun(job.Name, err == nil)
	if err != nil {
		logger.Error().Err(err).Dur("elapsed", time.Since(started)).Msg("scheduled job failed")
		return n, err
	}
	logger.Info().Int("affected", n).Dur("elapsed", time.Since(started)).Msg("scheduled job finished")
	return n, nil
}

// Start runs the cron loop in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("scheduler stop timed out with jobs still running")
	}
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct {
	logger *zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
