package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_BASE_URL", "https://bitacoras.example.com/")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,,")
	t.Setenv("JWT_EXPIRY_HOURS", "8")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("REMINDER_AFTER_HOURS", "48")

	cfg := Load()
	if cfg.BaseURL != "https://bitacoras.example.com" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
	if len(cfg.CorsOrigins) != 2 || cfg.CorsOrigins[1] != "https://b.example.com" {
		t.Errorf("cors = %v", cfg.CorsOrigins)
	}
	if cfg.JWTExpiry != 8*time.Hour {
		t.Errorf("jwt expiry = %s", cfg.JWTExpiry)
	}
	if cfg.RateLimitPerMinute != 30 {
		t.Errorf("rate limit = %d, want default", cfg.RateLimitPerMinute)
	}
	if cfg.ReminderAfter != 48*time.Hour {
		t.Errorf("reminder after = %s", cfg.ReminderAfter)
	}
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"", "postgres", "mysql", "sqlite"} {
		if _, err := dialector(driver, "dsn"); err != nil {
			t.Errorf("%q: %v", driver, err)
		}
	}
	if _, err := dialector("oracle", "dsn"); err == nil {
		t.Error("expected unsupported driver error")
	}
}

func TestNewRedisClientDisabled(t *testing.T) {
	if c := NewRedisClient(Config{}, nil); c != nil {
		t.Error("empty address should disable redis")
	}
}
