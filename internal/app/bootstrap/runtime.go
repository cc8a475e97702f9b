package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gohttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/keyhaven/keyhaven/internal/adapters/cache"
	httpadapter "github.com/keyhaven/keyhaven/internal/adapters/http"
	"github.com/keyhaven/keyhaven/internal/adapters/postgres"
	"github.com/keyhaven/keyhaven/internal/adapters/security"
	"github.com/keyhaven/keyhaven/internal/application"
	"github.com/keyhaven/keyhaven/internal/ports"
)

// Runtime owns the wired object graph and the resources behind it.
type Runtime struct {
	Config  Config
	Service *application.Service
	Router  gohttp.Handler

	db    *gorm.DB
	redis *redis.Client
}

// NewRuntime loads configuration and wires every adapter behind the service.
// Redis is optional: without it the API-key lookups go straight to Postgres.
func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	configureLogging(cfg)
	logger := slog.Default().With("service", "keyhaven", "module", "bootstrap", "layer", "app")

	if cfg.IsProduction() && cfg.SessionSecret == DefaultSessionSecret {
		logger.WarnContext(ctx, "session secret is the development default",
			"operation", "load_config",
			"outcome", "degraded",
		)
	}

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	repos := postgres.NewRepositories(db)

	var redisClient *redis.Client
	var apiKeys ports.APIKeyRepository = repos.APIKeys
	if cfg.RedisURL != "" {
		redisClient, err = cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		apiKeys = cache.NewCachedAPIKeyRepository(repos.APIKeys, redisClient, cfg.APIKeyCacheTTL)
		logger.InfoContext(ctx, "api key cache enabled",
			"operation", "wire_cache",
			"outcome", "success",
			"ttl", cfg.APIKeyCacheTTL.String(),
		)
	}

	sessions, err := security.NewCookieSessionCodec(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ResetTokenTTL:    cfg.ResetTokenTTL,
			ExposeResetLinks: cfg.ExposeResetLinks,
		},
		Users:       repos.Users,
		Licenses:    repos.Licenses,
		APIKeys:     apiKeys,
		Hasher:      security.NewBcryptHasher(cfg.BcryptCost),
		ResetTokens: security.NewResetTokenIssuer(),
	})

	handler := httpadapter.NewHandler(service, sessions, httpadapter.CookieSettings{
		Secure: cfg.IsProduction(),
	})

	return &Runtime{
		Config:  cfg,
		Service: service,
		Router:  httpadapter.NewRouter(handler),
		db:      db,
		redis:   redisClient,
	}, nil
}

// RunAPI serves HTTP until the context is canceled or a termination signal
// arrives, then drains in-flight requests before releasing resources.
func (rt *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &gohttp.Server{
		Addr:              fmt.Sprintf(":%d", rt.Config.HTTPPort),
		Handler:           rt.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger := slog.Default().With("service", "keyhaven", "module", "bootstrap", "layer", "app")
	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "http server listening",
			"operation", "serve",
			"outcome", "success",
			"addr", server.Addr,
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, gohttp.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown incomplete",
				"operation", "shutdown",
				"outcome", "failure",
				"error", err.Error(),
			)
		}
	}

	rt.Close()
	return nil
}

// Close releases the store and cache handles. Safe to call once after RunAPI.
func (rt *Runtime) Close() {
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if rt.db != nil {
		if sqlDB, err := rt.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// configureLogging installs the process-wide JSON logger. Development keeps
// debug level for flow tracing; production logs info and above.
func configureLogging(cfg Config) {
	level := slog.LevelDebug
	if cfg.IsProduction() {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
