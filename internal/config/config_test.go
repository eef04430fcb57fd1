package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		App:       AppConfig{Name: "stewardpro-api", Env: "test", Port: "8080"},
		Database:  DatabaseConfig{Host: "localhost", Port: "5432", Name: "stewardpro", User: "postgres", SSLMode: "disable", Timezone: "UTC", MaxOpenConns: 5},
		JWT:       JWTConfig{Secret: "0123456789abcdef", ExpiryHours: time.Hour, RefreshExpiryHours: time.Hour},
		Redis:     RedisConfig{Address: "localhost:6379"},
		Gateway:   GatewayConfig{Timeout: 30 * time.Second},
		RateLimit: RateLimitConfig{Requests: 10, Duration: 60},
		Scheduler: SchedulerConfig{
			FiscalYearSpec:   "0 1 * * *",
			SubscriptionSpec: "30 0 * * *",
			WeeklySMSSpec:    "0 0 * * 6",
			MonthlyResetSpec: "0 0 1 * *",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown env", func(c *Config) { c.App.Env = "qa" }, true},
		{"short jwt secret", func(c *Config) { c.JWT.Secret = "short" }, true},
		{"bad redis address", func(c *Config) { c.Redis.Address = "localhost" }, true},
		{"unknown printer", func(c *Config) { c.Printer.Type = "bluetooth" }, true},
		{"zero gateway timeout", func(c *Config) { c.Gateway.Timeout = 0 }, true},
		{"missing weekly spec", func(c *Config) { c.Scheduler.WeeklySMSSpec = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	c := validConfig().Database
	c.Password = "secret"

	assert.Equal(t, "host=localhost user=postgres password=secret dbname=stewardpro port=5432 sslmode=disable TimeZone=UTC", c.DSN())
}
