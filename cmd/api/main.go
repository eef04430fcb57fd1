package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/application/service"
	"github.com/sangkips/stewardpro-api/internal/config"
	"github.com/sangkips/stewardpro-api/internal/infrastructure/database"
	"github.com/sangkips/stewardpro-api/internal/infrastructure/repository"
	"github.com/sangkips/stewardpro-api/internal/jobs"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/handler"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/middleware"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/routes"
	"github.com/sangkips/stewardpro-api/pkg/email"
	"github.com/sangkips/stewardpro-api/pkg/logger"
	"github.com/sangkips/stewardpro-api/pkg/mobilemoney"
	"github.com/sangkips/stewardpro-api/pkg/oauth"
	"github.com/sangkips/stewardpro-api/pkg/printer"
	"github.com/sangkips/stewardpro-api/pkg/sms"
	"github.com/sangkips/stewardpro-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	lg := logger.New(cfg.App.Env, cfg.App.Debug)
	log.Logger = lg
	zerolog.DefaultContextLogger = &lg

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		lg.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		lg.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		lg.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)
	churchRepo := repository.NewChurchRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	contributionRepo := repository.NewContributionRepository(db)
	seriesRepo := repository.NewNamingSeriesRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	itemRepo := repository.NewItemRepository(db)
	incomeRepo := repository.NewDepartmentIncomeRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	remittanceRepo := repository.NewRemittanceRepository(db)
	fiscalYearRepo := repository.NewFiscalYearRepository(db)
	treasuryRepo := repository.NewTreasuryBudgetRepository(db)
	smsLogRepo := repository.NewSMSLogRepository(db)
	paymentRepo := repository.NewMobileMoneyRepository(db)
	reportRepo := repository.NewReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Background tasks go to the worker through Redis
	taskClient := jobs.NewClient(&cfg.Redis)
	defer taskClient.Close()

	// Initialize services
	settingsService := service.NewSettingsService(settingsRepo, churchRepo)
	authService := service.NewAuthService(userRepo, passwordResetRepo, jwtManager, emailService, googleOAuthService)
	churchService := service.NewChurchService(churchRepo, userRepo, settingsRepo)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)
	memberService := service.NewMemberService(memberRepo, settingsService, taskClient)
	contributionService := service.NewContributionService(contributionRepo, memberRepo, seriesRepo, settingsService, taskClient)
	departmentService := service.NewDepartmentService(deptRepo, memberRepo, budgetRepo, incomeRepo, expenseRepo, settingsService)
	itemService := service.NewItemService(itemRepo, deptRepo)
	incomeService := service.NewIncomeService(incomeRepo, deptRepo, seriesRepo)
	treasuryService := service.NewTreasuryService(treasuryRepo, budgetRepo, fiscalYearRepo)
	budgetService := service.NewBudgetService(budgetRepo, deptRepo, itemRepo, fiscalYearRepo, seriesRepo, treasuryService, settingsService)
	expenseService := service.NewExpenseService(expenseRepo, deptRepo, budgetRepo, itemRepo, seriesRepo)
	remittanceService := service.NewRemittanceService(remittanceRepo, contributionRepo, seriesRepo, settingsService, taskClient)
	fiscalYearService := service.NewFiscalYearService(fiscalYearRepo, churchRepo)
	smsService := service.NewSMSService(settingsService, smsLogRepo, memberRepo, contributionRepo, churchRepo, sms.NewClient(cfg.Gateway.Timeout), taskClient)
	mobileMoneyService := service.NewMobileMoneyService(paymentRepo, memberRepo, settingsService, mobilemoney.NewClient(cfg.Gateway.Timeout))
	reportService := service.NewReportService(reportRepo, contributionRepo, expenseRepo, budgetRepo, fiscalYearRepo)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		lg.Warn().Err(err).Msg("Failed to initialize printer")
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, contributionRepo, churchRepo, cfg.Printer.Type, cfg.Printer.CharWidth)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService, googleOAuthService),
		Church:       handler.NewChurchHandler(churchService),
		User:         handler.NewUserHandler(userService),
		Member:       handler.NewMemberHandler(memberService),
		Contribution: handler.NewContributionHandler(contributionService, printerService),
		Department:   handler.NewDepartmentHandler(departmentService, itemService, incomeService),
		Income:       handler.NewIncomeHandler(incomeService),
		Budget:       handler.NewBudgetHandler(budgetService),
		Expense:      handler.NewExpenseHandler(expenseService),
		Remittance:   handler.NewRemittanceHandler(remittanceService),
		Settings:     handler.NewSettingsHandler(settingsService),
		SMS:          handler.NewSMSHandler(smsService),
		MobileMoney:  handler.NewMobileMoneyHandler(mobileMoneyService),
		FiscalYear:   handler.NewFiscalYearHandler(fiscalYearService, treasuryService),
		Report:       handler.NewReportHandler(reportService),
		Printer:      handler.NewPrinterHandler(printerService),
	}

	// Per-church rate limiter
	rateLimiter := middleware.NewChurchRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.RateLimit.Requests) / float64(cfg.RateLimit.Duration),
		BurstSize:         cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	defer rateLimiter.Close()

	// Setup routes
	router, err := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          &lg,
		IdempotencyRepo: idempotencyRepo,
		Churches:        churchService,
		Features:        settingsService,
		RateLimiter:     rateLimiter,
	})
	if err != nil {
		lg.Fatal().Err(err).Msg("Failed to set up routes")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msgf("Starting %s server", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Msg("Server forced to shut down")
	}
}
