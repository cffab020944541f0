package bootstrap

import (
	"context"
	"log/slog"
	"os"
	"strings"

	directoryservice "foreman/contexts/identity-access/directory-service"
	directorypostgres "foreman/contexts/identity-access/directory-service/adapters/postgres"
	projectservice "foreman/contexts/project-management/project-service"
	projectpostgres "foreman/contexts/project-management/project-service/adapters/postgres"
	redisadapter "foreman/contexts/project-management/project-service/adapters/redis"
	"foreman/internal/platform/auth"
	"foreman/internal/platform/cache"
	"foreman/internal/platform/config"
	"foreman/internal/platform/db"
	"foreman/internal/platform/httpserver"
	"foreman/internal/platform/metrics"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.LogLevel).With("service", cfg.ServiceName, "process", "api")

	var (
		pg        *db.Postgres
		projects  projectservice.Module
		directory directoryservice.Module
	)

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		// No DSN means local development against in-memory adapters.
		logger.Warn("postgres dsn not set, using in-memory stores",
			"event", "bootstrap_memory_fallback",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		projects = projectservice.NewInMemoryModule(logger)
		directory = directoryservice.NewInMemoryModule(logger)
	} else {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}

		projectRepo := projectpostgres.NewRepository(pg.DB, logger)
		projectDeps := projectservice.Dependencies{
			Projects:      projectRepo,
			Memberships:   projectRepo,
			Users:         projectRepo,
			Clock:         projectpostgres.SystemClock{},
			IDGenerator:   projectpostgres.UUIDGenerator{},
			OwnerCacheTTL: cfg.OwnerCacheTTL,
			Logger:        logger,
		}
		if strings.TrimSpace(cfg.RedisAddr) != "" {
			redisClient, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword)
			if err != nil {
				return nil, err
			}
			projectDeps.OwnerCache = redisadapter.NewOwnerCache(redisClient)
		}
		projects = projectservice.NewModule(projectDeps)

		directoryRepo := directorypostgres.NewRepository(pg.DB, logger)
		directory = directoryservice.NewModule(directoryservice.Dependencies{
			Tenants:     directoryRepo,
			Users:       directoryRepo,
			Clock:       directorypostgres.SystemClock{},
			IDGenerator: directorypostgres.UUIDGenerator{},
			Logger:      logger,
		})
	}

	server := httpserver.New(projects, directory, httpserver.Options{
		Addr:           cfg.HTTPAddr,
		Verifier:       auth.NewVerifier(cfg.JWTSecret),
		Metrics:        metrics.NewHTTPMetrics(nil),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Logger:         logger,
	})
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
