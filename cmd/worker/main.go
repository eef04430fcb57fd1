package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/config"
	"github.com/sangkips/stewardpro-api/internal/infrastructure/database"
	"github.com/sangkips/stewardpro-api/internal/infrastructure/repository"
	"github.com/sangkips/stewardpro-api/internal/jobs"
	"github.com/sangkips/stewardpro-api/internal/scheduler"
	"github.com/sangkips/stewardpro-api/pkg/email"
	"github.com/sangkips/stewardpro-api/pkg/logger"
	"github.com/sangkips/stewardpro-api/pkg/sms"
)

// The worker delivers queued SMS and email and runs the cron schedule.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	lg := logger.New(cfg.App.Env, cfg.App.Debug).With().Str("process", "worker").Logger()
	log.Logger = lg
	zerolog.DefaultContextLogger = &lg

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		lg.Fatal().Err(err).Msg("Failed to connect to database")
	}

	churchRepo := repository.NewChurchRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	contributionRepo := repository.NewContributionRepository(db)
	seriesRepo := repository.NewNamingSeriesRepository(db)
	remittanceRepo := repository.NewRemittanceRepository(db)
	fiscalYearRepo := repository.NewFiscalYearRepository(db)
	smsLogRepo := repository.NewSMSLogRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)

	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	})

	// Jobs never enqueue follow-up work, but the services still need a client
	taskClient := jobs.NewClient(&cfg.Redis)
	defer taskClient.Close()

	settingsService := service.NewSettingsService(settingsRepo, churchRepo)
	smsService := service.NewSMSService(settingsService, smsLogRepo, memberRepo, contributionRepo, churchRepo, sms.NewClient(cfg.Gateway.Timeout), taskClient)
	remittanceService := service.NewRemittanceService(remittanceRepo, contributionRepo, seriesRepo, settingsService, taskClient)
	fiscalYearService := service.NewFiscalYearService(fiscalYearRepo, churchRepo)

	worker := jobs.NewWorker(&cfg.Redis, jobs.NewHandlers(smsService, remittanceService, emailService), &lg)
	if err := worker.Start(); err != nil {
		lg.Fatal().Err(err).Msg("Failed to start job server")
	}

	var cron *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		schedule := scheduler.Jobs(&cfg.Scheduler, fiscalYearService, settingsService, smsService)
		if cfg.Scheduler.CleanupSpec != "" {
			schedule = append(schedule, scheduler.Cleanup(cfg.Scheduler.CleanupSpec, idempotencyRepo, passwordResetRepo))
		}
		cron, err = scheduler.New(&lg, schedule...)
		if err != nil {
			lg.Fatal().Err(err).Msg("Failed to schedule jobs")
		}
		cron.Start()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if cron != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		cron.Stop(ctx)
		cancel()
	}
	worker.Stop()
}
