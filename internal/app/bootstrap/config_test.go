package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/test")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Environment != "development" || cfg.HTTPPort != 8080 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.SessionTTL != 7*24*time.Hour || cfg.ResetTokenTTL != time.Hour {
		t.Fatalf("unexpected TTL defaults %+v", cfg)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("unexpected bcrypt cost %d", cfg.BcryptCost)
	}
	if !cfg.ExposeResetLinks {
		t.Fatal("reset links default on outside production")
	}
	if cfg.IsProduction() {
		t.Fatal("development must not report production")
	}
}

func TestLoadConfigFileAndEnvPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
service:
  environment: staging
  http_port: 9000
dependencies:
  postgres_url: "postgres://file/db"
session:
  secret: "file-secret"
`)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("SESSION_SECRET", "env-secret")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Fatalf("file value not applied: %q", cfg.Environment)
	}
	if cfg.HTTPPort != 9100 {
		t.Fatalf("env must override file, got %d", cfg.HTTPPort)
	}
	if cfg.SessionSecret != "env-secret" {
		t.Fatalf("env must override file, got %q", cfg.SessionSecret)
	}
	if cfg.DatabaseURL != "postgres://file/db" {
		t.Fatalf("file database url not applied: %q", cfg.DatabaseURL)
	}
}

func TestLoadConfigProductionHardening(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/test")
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production mode")
	}
	if cfg.ExposeResetLinks {
		t.Fatal("reset links must default off in production")
	}

	t.Setenv("EXPOSE_RESET_LINKS", "true")
	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.ExposeResetLinks {
		t.Fatal("explicit override must win")
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("POSTGRES_URL", "")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error without a database url")
	}
}
