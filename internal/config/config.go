package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Email     EmailConfig
	OAuth     OAuthConfig
	Printer   PrinterConfig
	Gateway   GatewayConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Name  string `validate:"required"`
	Env   string `validate:"required,oneof=development staging production test"`
	Port  string `validate:"required,numeric"`
	Debug bool
}

type DatabaseConfig struct {
	Host         string `validate:"required"`
	Port         string `validate:"required,numeric"`
	Name         string `validate:"required"`
	User         string `validate:"required"`
	Password     string
	SSLMode      string `validate:"required,oneof=disable require verify-ca verify-full"`
	Timezone     string `validate:"required"`
	MaxOpenConns int    `validate:"gte=1"`
	MaxIdleConns int    `validate:"gte=0"`
}

type JWTConfig struct {
	Secret             string        `validate:"required,min=16"`
	ExpiryHours        time.Duration `validate:"gt=0"`
	RefreshExpiryHours time.Duration `validate:"gt=0"`
}

type RedisConfig struct {
	Address  string `validate:"required,hostname_port"`
	Password string
	DB       int `validate:"gte=0"`
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string `validate:"omitempty,email"`
	FrontendURL  string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendSuccessURL string
	FrontendErrorURL   string
}

type PrinterConfig struct {
	Type      string `validate:"omitempty,oneof=usb network none"`
	USBPath   string
	Address   string
	CharWidth int
}

// GatewayConfig bounds outbound SMS and mobile-money calls.
type GatewayConfig struct {
	Timeout time.Duration `validate:"gt=0"`
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int `validate:"gte=1"`
	Duration int `validate:"gte=1"`
}

type SchedulerConfig struct {
	Enabled          bool
	FiscalYearSpec   string `validate:"required"`
	SubscriptionSpec string `validate:"required"`
	WeeklySMSSpec    string `validate:"required"`
	MonthlyResetSpec string `validate:"required"`
	// Expired idempotency keys and reset tokens are purged on this schedule; empty disables it
	CleanupSpec      string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg(".env file not found, using environment variables")
	}

	viper.SetDefault("APP_NAME", "stewardpro-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "stewardpro")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Africa/Dar_es_Salaam")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("REDIS_ADDRESS", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "StewardPro")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 32)
	viper.SetDefault("GATEWAY_TIMEOUT_SECONDS", 30)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("SCHEDULER_FISCAL_YEAR_SPEC", "0 1 * * *")
	viper.SetDefault("SCHEDULER_SUBSCRIPTION_SPEC", "30 0 * * *")
	viper.SetDefault("SCHEDULER_WEEKLY_SMS_SPEC", "0 0 * * 6")
	viper.SetDefault("SCHEDULER_MONTHLY_RESET_SPEC", "0 0 1 * *")
	viper.SetDefault("SCHEDULER_CLEANUP_SPEC", "0 3 * * *")

	cfg := &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			Name:         viper.GetString("DB_NAME"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			SSLMode:      viper.GetString("DB_SSL_MODE"),
			Timezone:     viper.GetString("DB_TIMEZONE"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("REDIS_ADDRESS"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("SMTP_FROM_NAME"),
			FromEmail:    viper.GetString("SMTP_FROM_EMAIL"),
			FrontendURL:  viper.GetString("FRONTEND_URL"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
			FrontendSuccessURL: viper.GetString("OAUTH_SUCCESS_URL"),
			FrontendErrorURL:   viper.GetString("OAUTH_ERROR_URL"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
		},
		Gateway: GatewayConfig{
			Timeout: time.Duration(viper.GetInt("GATEWAY_TIMEOUT_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Scheduler: SchedulerConfig{
			Enabled:          viper.GetBool("SCHEDULER_ENABLED"),
			FiscalYearSpec:   viper.GetString("SCHEDULER_FISCAL_YEAR_SPEC"),
			SubscriptionSpec: viper.GetString("SCHEDULER_SUBSCRIPTION_SPEC"),
			WeeklySMSSpec:    viper.GetString("SCHEDULER_WEEKLY_SMS_SPEC"),
			MonthlyResetSpec: viper.GetString("SCHEDULER_MONTHLY_RESET_SPEC"),
			CleanupSpec:      viper.GetString("SCHEDULER_CLEANUP_SPEC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags on the loaded configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
