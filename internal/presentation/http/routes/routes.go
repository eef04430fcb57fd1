package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sangkips/stewardpro-api/internal/config"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/enum"
	domainRepo "github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/handler"
	"github.com/sangkips/stewardpro-api/internal/presentation/http/middleware"
	"github.com/sangkips/stewardpro-api/pkg/metrics"
	"github.com/sangkips/stewardpro-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Church       *handler.ChurchHandler
	User         *handler.UserHandler
	Member       *handler.MemberHandler
	Contribution *handler.ContributionHandler
	Department   *handler.DepartmentHandler
	Income       *handler.IncomeHandler
	Budget       *handler.BudgetHandler
	Expense      *handler.ExpenseHandler
	Remittance   *handler.RemittanceHandler
	Settings     *handler.SettingsHandler
	SMS          *handler.SMSHandler
	MobileMoney  *handler.MobileMoneyHandler
	FiscalYear   *handler.FiscalYearHandler
	Report       *handler.ReportHandler
	Printer      *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *zerolog.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	Churches        middleware.ChurchResolver
	Features        middleware.FeatureChecker
	RateLimiter     *middleware.ChurchRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) (*gin.Engine, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		registerAccountRoutes(protected, h)
		registerAdminRoutes(protected, h)

		// Church routes: the church comes from X-Church-ID or the subdomain
		church := protected.Group("")
		church.Use(middleware.ChurchContext(deps.Churches))
		church.Use(deps.RateLimiter.Middleware())
		registerChurchRoutes(church, h, deps)
	}

	return router, nil
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerAccountRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Churches the caller belongs to; creating one makes the caller owner
	protected.GET("/churches", h.Church.List)
	protected.POST("/churches", h.Church.Create)
}

func registerAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(entity.RoleSuperAdmin))
	{
		admin.GET("/users", h.User.List)
		admin.GET("/users/:id", h.User.Get)
		admin.PUT("/users/:id/roles", h.User.UpdateRoles)
		admin.PUT("/users/:id/active", h.User.SetActive)
		admin.DELETE("/users/:id", h.User.Delete)
		admin.GET("/roles", h.User.ListRoles)
		admin.PUT("/roles/:id/permissions", h.User.UpdateRolePermissions)
		admin.GET("/permissions", h.User.ListPermissions)
	}
}

func registerChurchRoutes(church *gin.RouterGroup, h *Handlers, deps *Deps) {
	registerCurrentChurchRoutes(church, h)
	registerMemberRoutes(church, h, deps)
	registerContributionRoutes(church, h, deps)
	registerDepartmentRoutes(church, h)
	registerIncomeRoutes(church, h, deps)
	registerBudgetRoutes(church, h, deps)
	registerExpenseRoutes(church, h, deps)
	registerRemittanceRoutes(church, h, deps)
	registerSettingsRoutes(church, h)
	registerSMSRoutes(church, h, deps)
	registerMobileMoneyRoutes(church, h, deps)
	registerFiscalYearRoutes(church, h)
	registerReportRoutes(church, h)
	registerPrinterRoutes(church, h)
}

func registerCurrentChurchRoutes(church *gin.RouterGroup, h *Handlers) {
	current := church.Group("/church")
	manage := middleware.RequirePermission(entity.PermSettingsManage)
	{
		current.GET("", h.Church.Current)
		current.PUT("", manage, h.Church.Update)
		current.GET("/users", h.Church.ListUsers)
		current.POST("/users", manage, h.Church.AddUser)
		current.DELETE("/users/:user_id", manage, h.Church.RemoveUser)
	}
}

func registerMemberRoutes(church *gin.RouterGroup, h *Handlers, deps *Deps) {
	members := church.Group("/members")
	members.Use(middleware.RequirePermission(entity.PermMemberView))
	manage := middleware.RequirePermission(entity.PermMemberManage)
	{
		members.GET("", h.Member.List)
		members.POST("", manage, middleware.Idempotency(deps.IdempotencyRepo), h.Member.Create)
		members.GET("/:id", h.Member.Get)
		members.PUT("/:id", manage, h.Member.Update)
		members.DELETE("/:id", manage, h.Member.Delete)
	}
}

func registerContributionRoutes(church *gin.RouterGroup, h *Handlers, deps *Deps) {
	contributions := church.Group("/contributions")
	contributions.Use(middleware.RequirePermission(entity.PermFinanceView))
	manage := middleware.RequirePermission(entity.PermFinanceManage)
	idem := middleware.Idempotency(deps.IdempotencyRepo)
	{
		contributions.GET("", h.Contribution.List)
		contributions.POST("", manage, idem, h.Contribution.Create)
		contributions.GET("/:id", h.Contribution.Get)
		contributions.PUT("/:id", manage, h.Contribution.Update)
		contributions.DELETE("/:id", manage, h.Contribution.Delete)
		contributions.POST("/:id/submit", manage, idem, h.Contribution.Submit)
		contributions.POST("/:id/cancel", manage, h.Contribution.Cancel)
		contributions.POST("/:id/print", h.Contribution.PrintReceipt)
	}
}

func registerDepartmentRoutes(church *gin.RouterGroup, h *Handlers) {
	departments := church.Group("/departments")
	departments.Use(middleware.RequirePermission(entity.PermFinanceView))
	manage := middleware.RequirePermission(entity.PermBudgetManage)
	{
		departments.GET("", h.Department.List)
		departments.GET("/tree", h.Department.Tree)
		departments.POST("", manage, h.Department.Create)
		departments.GET("/:id", h.Department.Get)
		departments.PUT("/:id", manage, h.Department.Update)
		departments.DELETE("/:id", manage, h.Department.Delete)
		departments.GET("/:id/utilization", h.Department.Utilization)
		departments.GET("/:id/balance", h.Department.Balance)
		departments.GET("/:id/income-by-type", h.Department.IncomeByType)
	}

	items := church.Group("/items")
	items.Use(middleware.RequirePermission(entity.PermFinanceView))
	{
		items.GET("", h.Department.ListItems)
		items.POST("", manage, h.Department.CreateItem)
		items.GET("/:id", h.Department.GetItem)
		items.PUT("/:id", manage, h.Department.UpdateItem)
		items.DELETE("/:id", manage, h.Department.DeleteItem)
	}
}

func registerIncomeRoutes(church *gin.RouterGroup, h *Handlers, deps *Deps) {
	income := church.Group("/department-income")
	income.Use(middleware.RequirePermission(entity.PermFinanceView))
	manage := middleware.RequirePermission(entity.PermFinanceManage)
	idem := middleware.Idempotency(deps.IdempotencyRepo)
	{
		income.GET("", h.Income.List)
		income.POST("", manage, idem, h.Income.Create)
		income.GET("/:id", h.Income.Get)
		income.POST("/:id/submit", manage, idem, h.Income.Submit)
		income.POST("/:id/cancel", manage, h.Income.Cancel)
		income.DELETE("/:id", manage, h.Income.Delete)
	}
}

func registerBudgetRoutes(church *gin.RouterGroup, h *Handlers, deps *Deps) {
	budgets := church.Group("/budgets")
	budgets.Use(middleware.RequirePermission(entity.PermFinanceView))
	manage := middleware.RequirePermission(entity.PermBudgetManage)
	idem := middleware.Idempotency(deps.IdempotencyRepo)
	{
		budgets.GET("", h.Budget.List)
		budgets.POST("", manage, idem, h.Budget.Create)
		budgets.GET("/:id", h.Budget.Get)
		budgets.PUT("/:id", manage, h.Budget.Update)
		budgets.DELETE("/:id", manage, h.Budget.Delete)
		budgets.GET("/:id/items", h.Budget.Items)
		budgets.POST("/:id/submit", manage, idem, h.Budget.Submit)
		budgets.POST("/:id/cancel", manage, h.Budget.Cancel)
		budgets.POST("/:id/close", manage, h.Budget.Close)
	}
}

func registerExpenseRoutes(church *gin.RouterGroup, h *Handlers, deps *Deps) {
	expenses := church.Group("/expenses")
	expenses.Use(middleware.RequirePermission(entity.PermFinanceView))
	manage := middleware.RequirePermission(entity.PermFinanceManage)
	approve := middleware.RequirePermission(entity.PermFinanceApprove)
	idem := middleware.Idempotency(deps.IdempotencyRepo)
	{
		expenses.GET("", h.Expense.List)
		expenses.POST("", manage, idem, h.Expense.Create)
		expenses.POST("/budget-impact", h.Expense.BudgetImpact)
		expenses.GET("/:id", h.Expense.Get)
		expenses.PUT("/:id", manage, h.Expense.Update)
		expenses.DELETE("/:id", manage, h.Expense.Delete)
		expenses.POST("/:id/submit", manage, idem, h.Expense.Submit)
		expenses.POST("/:id/cancel", manage, h.Expense.Cancel)
		expenses.POST("/:id/approve", approve, h.Expense.Approve)
		expenses.POST("/:id/reject", approve, h.Expense.Reject)
		expenses.POST("/:id/pay", approve, h.Expense.MarkPaid)
	}
}

func registerRemittanceRoutes(church *gin.RouterGroup, h *Handlers, deps *Deps) {
	remittances := church.Group("/remittances")
	remittances.Use(middleware.RequirePermission(entity.PermFinanceView))
	manage := middleware.RequirePermission(entity.PermRemittanceManage)
	idem := middleware.Idempotency(deps.IdempotencyRepo)
	{
		remittances.GET("", h.Remittance.List)
		remittances.GET("/preview", h.Remittance.Preview)
		remittances.POST("", manage, idem, h.Remittance.Create)
		remittances.POST("/from-preview", manage, idem, h.Remittance.CreateFromPreview)
		remittances.GET("/:id", h.Remittance.Get)
		remittances.PUT("/:id", manage, h.Remittance.Update)
		remittances.DELETE("/:id", manage, h.Remittance.Delete)
		remittances.GET("/:id/summary", h.Remittance.Summary)
		remittances.POST("/:id/submit", manage, idem, h.Remittance.Submit)
		remittances.POST("/:id/sent", manage, h.Remittance.MarkSent)
		remittances.POST("/:id/received", manage, h.Remittance.MarkReceived)
		remittances.POST("/:id/cancel", manage, h.Remittance.Cancel)
	}
}

func registerSettingsRoutes(church *gin.RouterGroup, h *Handlers) {
	settings := church.Group("/settings")
	manage := middleware.RequirePermission(entity.PermSettingsManage)
	{
		settings.GET("", h.Settings.GetSettings)
		settings.PUT("", manage, h.Settings.UpdateSettings)
		settings.PUT("/package", manage, h.Settings.ChangePackage)
		settings.GET("/subscription", h.Settings.Subscription)
		settings.GET("/sms-balance", h.Settings.SMSBalance)
	}
}

func registerSMSRoutes(church *gin.RouterGroup, h *Handlers, deps *Deps) {
	sms := church.Group("/sms")
	sms.Use(middleware.RequirePermission(entity.PermSMSSend))
	sms.Use(middleware.RequireFeature(deps.Features, enum.FeatureSMS))
	idem := middleware.Idempotency(deps.IdempotencyRepo)
	{
		sms.POST("/bulk", idem, h.SMS.QueueBulk)
		sms.POST("/bulk/send", idem, h.SMS.SendBulk)
		sms.GET("/logs", h.SMS.Logs)
	}
}

func registerMobileMoneyRoutes(church *gin.RouterGroup, h *Handlers, deps *Deps) {
	mm := church.Group("/mobile-money")
	mm.Use(middleware.RequirePermission(entity.PermFinanceManage))
	mm.Use(middleware.RequireFeature(deps.Features, enum.FeatureMobileMoney))
	{
		mm.GET("/payments", h.MobileMoney.List)
		// Payment prompts charge a phone, so every request needs a key
		mm.POST("/payments", middleware.IdempotencyRequired(deps.IdempotencyRepo), h.MobileMoney.RequestPayment)
	}
}

func registerFiscalYearRoutes(church *gin.RouterGroup, h *Handlers) {
	years := church.Group("/fiscal-years")
	years.Use(middleware.RequirePermission(entity.PermFinanceView))
	manage := middleware.RequirePermission(entity.PermBudgetManage)
	{
		years.GET("", h.FiscalYear.List)
		years.GET("/covering", h.FiscalYear.Covering)
		years.POST("", manage, h.FiscalYear.Create)
		years.GET("/:id", h.FiscalYear.Get)
		years.PUT("/:id", manage, h.FiscalYear.Update)
		years.GET("/:id/treasury", h.FiscalYear.Treasury)
		years.POST("/:id/treasury/sync", manage, h.FiscalYear.SyncTreasury)
	}
}

func registerReportRoutes(church *gin.RouterGroup, h *Handlers) {
	reports := church.Group("/reports")
	reports.Use(middleware.RequirePermission(entity.PermReportView))
	{
		reports.GET("/financial-summary", h.Report.FinancialSummary)
		reports.GET("/departmental-budget", h.Report.DepartmentalBudget)
		reports.GET("/department-balances", h.Report.DepartmentBalances)
		reports.GET("/pending-remittance", h.Report.PendingRemittance)
		reports.GET("/tithes-offerings", h.Report.TithesAndOfferings)
	}
}

func registerPrinterRoutes(church *gin.RouterGroup, h *Handlers) {
	printerGroup := church.Group("/printer")
	printerGroup.Use(middleware.RequirePermission(entity.PermFinanceManage))
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}
