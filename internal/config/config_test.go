package config

import (
	"errors"
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_key")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("PUBLIC_URL", "https://oracoes.example.com")
	t.Setenv("DATABASE_URL", "postgres://localhost/oracoes")
}

func TestValidate_AllRequiredPresent(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed with all required keys set: %v", err)
	}
}

func TestValidate_MissingKeysListed(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("DATABASE_URL", "")

	err := Load().Validate()
	if !errors.Is(err, ErrMissingConfig) {
		t.Fatalf("Validate error = %v, want ErrMissingConfig", err)
	}
	for _, key := range []string{"STRIPE_SECRET_KEY", "DATABASE_URL"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not name missing key %s", err, key)
		}
	}
	if strings.Contains(err.Error(), "STRIPE_WEBHOOK_SECRET") {
		t.Errorf("error %q names a key that is present", err)
	}
}

func TestValidate_PublishableKeyOptional(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STRIPE_PUBLISHABLE_KEY", "")

	if err := Load().Validate(); err != nil {
		t.Fatalf("publishable key must be optional, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("STRIPE_WEBHOOK_PATH", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Stripe.WebhookPath != "/api/payments/webhook" {
		t.Errorf("WebhookPath = %q, want /api/payments/webhook", cfg.Stripe.WebhookPath)
	}
}

func TestLoad_TrimsPublicURLSlash(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PUBLIC_URL", "https://oracoes.example.com/")

	cfg := Load()
	if cfg.PublicURL != "https://oracoes.example.com" {
		t.Errorf("PublicURL = %q, trailing slash should be trimmed", cfg.PublicURL)
	}
}
