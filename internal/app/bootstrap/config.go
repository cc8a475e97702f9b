package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSessionSecret is the development fallback for cookie signing. Running
// production with it is a configuration fault that bootstrap flags loudly, but
// it is tolerated so local-style deploys still come up.
const DefaultSessionSecret = "default-secret-key-for-dev"

// Config is the resolved runtime configuration.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	Environment string
	HTTPPort    int

	DatabaseURL string
	RedisURL    string

	SessionSecret    string
	SessionTTL       time.Duration
	ResetTokenTTL    time.Duration
	BcryptCost       int
	ExposeResetLinks bool

	MaxDBConns     int
	APIKeyCacheTTL time.Duration
}

// IsProduction reports whether the deployment-mode switches should harden.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		Environment string `yaml:"environment"`
		HTTPPort    int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Session struct {
		Secret string `yaml:"secret"`
	} `yaml:"session"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		Environment:    "development",
		HTTPPort:       8080,
		SessionSecret:  DefaultSessionSecret,
		SessionTTL:     7 * 24 * time.Hour,
		ResetTokenTTL:  time.Hour,
		BcryptCost:     10,
		MaxDBConns:     20,
		APIKeyCacheTTL: time.Minute,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.Environment != "" {
			cfg.Environment = f.Service.Environment
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Session.Secret != "" {
			cfg.SessionSecret = f.Session.Secret
		}
	}

	cfg.Environment = envOrDefault("APP_ENV", cfg.Environment)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.SessionSecret = envOrDefault("SESSION_SECRET", cfg.SessionSecret)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.MaxDBConns = envInt("DB_MAX_CONNS", cfg.MaxDBConns)

	cfg.SessionTTL = time.Duration(envInt("SESSION_EXPIRY_DAYS", int(cfg.SessionTTL.Hours()/24))) * 24 * time.Hour
	cfg.ResetTokenTTL = time.Duration(envInt("RESET_TOKEN_TTL_MINUTES", int(cfg.ResetTokenTTL.Minutes()))) * time.Minute
	cfg.APIKeyCacheTTL = time.Duration(envInt("API_KEY_CACHE_TTL_SECONDS", int(cfg.APIKeyCacheTTL.Seconds()))) * time.Second

	// The reset link belongs in the HTTP response only while no mail transport
	// exists; outside development it must travel out-of-band.
	cfg.ExposeResetLinks = envBool("EXPOSE_RESET_LINKS", !cfg.IsProduction())

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("missing SESSION_SECRET")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envBool parses common boolean env forms while keeping a deterministic fallback.
func envBool(name string, fallback bool) bool {
	switch os.Getenv(name) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}
