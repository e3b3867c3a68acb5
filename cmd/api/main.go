// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the LPPM portal HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent, can be disabled).
//  6. Wire repositories, services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/lppm/internal/api"
	"github.com/taibuivan/lppm/internal/core/access"
	"github.com/taibuivan/lppm/internal/core/community"
	"github.com/taibuivan/lppm/internal/core/dashboard"
	"github.com/taibuivan/lppm/internal/core/program"
	"github.com/taibuivan/lppm/internal/core/proposal"
	"github.com/taibuivan/lppm/internal/core/review"
	"github.com/taibuivan/lppm/internal/platform/config"
	"github.com/taibuivan/lppm/internal/platform/constants"
	"github.com/taibuivan/lppm/internal/platform/migration"
	pgstore "github.com/taibuivan/lppm/internal/platform/postgres"
	redisstore "github.com/taibuivan/lppm/internal/platform/redis"
	"github.com/taibuivan/lppm/internal/platform/sec"
	"github.com/taibuivan/lppm/internal/users/account"
	"github.com/taibuivan/lppm/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("identity_policy", cfg.IdentityPolicy),
	)

	// Startup gets a deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	if cfg.RunMigrations {
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")
	}

	// ── 6. Security primitives ────────────────────────────────────────────
	codec := sec.NewTokenCodec(cfg.Secrets(), constants.AuthIssuer)
	hasher := sec.NewPasswordHasher(cfg.Argon2Params())
	gate := access.NewGate()

	// ── 7. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	identityRepository := auth.NewIdentityRepository(pool)
	revocationStore := auth.NewRevocationStore(rdb)

	authService := auth.NewService(
		identityRepository,
		revocationStore,
		auth.NewLockoutStore(rdb),
		hasher,
		codec,
		auth.Config{
			TokenTTL:         cfg.TokenTTL,
			MaxLoginAttempts: cfg.LoginMaxAttempts,
			LockoutWindow:    cfg.LoginLockout,
		},
	)
	authenticator := auth.NewAuthenticator(codec, revocationStore, identityRepository, cfg.LiveIdentity())

	accountService := account.NewService(identityRepository, gate, hasher, log)
	programService := program.NewService(program.NewPostgresRepository(pool), gate, log)
	proposalService := proposal.NewService(proposal.NewPostgresRepository(pool), gate, log)
	communityService := community.NewService(community.NewPostgresRepository(pool), gate, log)
	reviewService := review.NewService(review.NewPostgresRepository(pool), gate, log)
	dashboardService := dashboard.NewService(proposalService, communityService, identityRepository, gate, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Program:   program.NewHandler(programService),
		Proposal:  proposal.NewHandler(proposalService),
		Community: community.NewHandler(communityService),
		Review:    review.NewHandler(reviewService),
		Dashboard: dashboard.NewHandler(dashboardService),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, authenticator, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger every entry of this process goes through.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", "lppm"))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
