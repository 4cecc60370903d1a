package config

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/dumppad")
	t.Setenv("SESSION_SECRET", strings.Repeat("a", 32))
	t.Setenv("EMAIL_TOKEN_SECRET", strings.Repeat("b", 32))
	t.Setenv("OAUTH_STATE_SECRET", strings.Repeat("c", 16))
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected port: %q", cfg.HTTPPort)
	}
	if cfg.VerificationTokenTTL.Hours() != 24 {
		t.Fatalf("unexpected verification TTL: %v", cfg.VerificationTokenTTL)
	}
	if cfg.ResetTokenTTL.Hours() != 1 {
		t.Fatalf("unexpected reset TTL: %v", cfg.ResetTokenTTL)
	}
	if cfg.PublicBaseURL != "http://localhost:3000" {
		t.Fatalf("unexpected base url: %q", cfg.PublicBaseURL)
	}
}

func TestLoadRejectsShortSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_SECRET", "short")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Fatalf("expected SESSION_SECRET error, got %v", err)
	}
}

func TestLoadRejectsSharedSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMAIL_TOKEN_SECRET", strings.Repeat("a", 32))
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("expected shared-secret error, got %v", err)
	}
}

func TestLoadTrimsBaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PUBLIC_BASE_URL", "https://dumppad.app/")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PublicBaseURL != "https://dumppad.app" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.PublicBaseURL)
	}
}
