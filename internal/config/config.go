package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config collects everything the API process reads from the environment.
type Config struct {
	Stage       string
	Port        string
	DatabaseURL string

	StripeAPIKey        string
	StripeWebhookSecret string

	ResendAPIKey string
	FromEmail    string
	FromName     string

	JWTSecret string

	// PortalBaseURL is where checkout success/cancel pages live.
	PortalBaseURL string

	// Currency is the ISO 4217 code invoices are billed in.
	Currency string

	RateLimitPerSecond int
	RateLimitBurst     int
}

// Load reads configuration from the environment. A local .env file is loaded
// first when present; missing required variables fail loudly.
func Load() (*Config, error) {
	// Ignore the error: production environments have no .env file.
	_ = godotenv.Load()

	cfg := &Config{
		Stage:               getEnv("STAGE", "dev"),
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		StripeAPIKey:        os.Getenv("STRIPE_API_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		ResendAPIKey:        os.Getenv("RESEND_API_KEY"),
		FromEmail:           getEnv("FROM_EMAIL", "billing@portal.local"),
		FromName:            getEnv("FROM_NAME", "Client Portal"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		PortalBaseURL:       getEnv("PORTAL_BASE_URL", "http://localhost:3000"),
		Currency:            getEnv("CURRENCY", "usd"),
		RateLimitPerSecond:  getEnvInt("RATE_LIMIT_RPS", 20),
		RateLimitBurst:      getEnvInt("RATE_LIMIT_BURST", 40),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.StripeAPIKey == "" {
		return nil, fmt.Errorf("STRIPE_API_KEY environment variable is required")
	}
	if cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
