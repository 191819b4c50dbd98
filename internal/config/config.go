package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrMissingConfig marks a deployment with required configuration absent.
// main surfaces it once at startup instead of letting handlers trip over
// nil checks at request time.
var ErrMissingConfig = errors.New("missing required configuration")

type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	PublishableKey string
	WebhookPath    string
}

type EmailConfig struct {
	ResendAPIKey string
	FromAddress  string
	FromName     string
}

type Config struct {
	Port        string
	PublicURL   string
	DatabaseURL string
	Stripe      StripeConfig
	Email       EmailConfig
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		PublicURL:   strings.TrimRight(os.Getenv("PUBLIC_URL"), "/"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Stripe: StripeConfig{
			SecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
			PublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
			WebhookPath:    getEnv("STRIPE_WEBHOOK_PATH", "/api/payments/webhook"),
		},
		Email: EmailConfig{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			FromAddress:  os.Getenv("EMAIL_FROM_ADDRESS"),
			FromName:     os.Getenv("EMAIL_FROM_NAME"),
		},
	}
}

// Validate checks the server-side keys the handlers cannot run without.
// STRIPE_PUBLISHABLE_KEY and RESEND_* are optional: without them checkout
// initiation and confirmation emails degrade, but the API stays up.
func (c *Config) Validate() error {
	var missing []string

	if c.Stripe.SecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if c.Stripe.WebhookSecret == "" {
		missing = append(missing, "STRIPE_WEBHOOK_SECRET")
	}
	if c.PublicURL == "" {
		missing = append(missing, "PUBLIC_URL")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
