package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port    string
	AppEnv  string
	BaseURL string

	DBDriver string
	DBURL    string

	JWTSecret string
	JWTExpiry time.Duration

	LogoPath    string
	CorsOrigins []string

	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RateLimitPerMinute int

	RabbitURL   string
	EventsQueue string

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioPhoneNumber    string
	TwilioWhatsAppNumber string

	ReminderCron  string
	ReminderAfter time.Duration
}

// Load reads the configuration from the environment. godotenv has already
// populated it from .env when present.
func Load() Config {
	return Config{
		Port:    getenv("PORT", "8080"),
		AppEnv:  getenv("APP_ENV", "development"),
		BaseURL: strings.TrimRight(getenv("APP_BASE_URL", "http://localhost:8080"), "/"),

		DBDriver: getenv("DB_DRIVER", "postgres"),
		DBURL:    os.Getenv("DB_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: time.Duration(envInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,

		LogoPath:    getenv("LOGO_PATH", "public/logo-PosdeHonduras.png"),
		CorsOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:3000")),

		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            envInt("REDIS_DB", 0),
		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 30),

		RabbitURL:   os.Getenv("RABBITMQ_URL"),
		EventsQueue: getenv("EVENTS_QUEUE", "bitacoras.eventos"),

		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber:    os.Getenv("TWILIO_PHONE_NUMBER"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),

		ReminderCron:  getenv("REMINDER_CRON", "0 9 * * *"),
		ReminderAfter: time.Duration(envInt("REMINDER_AFTER_HOURS", 24)) * time.Hour,
	}
}

func (c Config) Production() bool {
	return c.AppEnv == "production"
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
