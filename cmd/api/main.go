// Copyright (c) 2026 Veranda Systems. All rights reserved.

// Command api is the entry point for the Veranda HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
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

	"github.com/joho/godotenv"

	"github.com/verandahq/veranda/internal/api"
	"github.com/verandahq/veranda/internal/core/building"
	"github.com/verandahq/veranda/internal/core/commonspace"
	"github.com/verandahq/veranda/internal/core/condominium"
	"github.com/verandahq/veranda/internal/core/payment"
	"github.com/verandahq/veranda/internal/core/reservation"
	"github.com/verandahq/veranda/internal/core/resident"
	"github.com/verandahq/veranda/internal/core/unit"
	"github.com/verandahq/veranda/internal/mail"
	"github.com/verandahq/veranda/internal/platform/cache"
	"github.com/verandahq/veranda/internal/platform/config"
	"github.com/verandahq/veranda/internal/platform/constants"
	"github.com/verandahq/veranda/internal/platform/migration"
	pgstore "github.com/verandahq/veranda/internal/platform/postgres"
	redisstore "github.com/verandahq/veranda/internal/platform/redis"
	"github.com/verandahq/veranda/internal/platform/sec"
	"github.com/verandahq/veranda/internal/users/account"
	"github.com/verandahq/veranda/internal/users/auth"
)

func main() {
	// Load a local .env file when present. Real environments set variables
	// directly; a missing file is not an error.
	_ = godotenv.Load()

	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "veranda"))
	slog.SetDefault(log)

	log.Info("[Veranda] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "veranda"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Platform Services ──────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	appCache := cache.New(rdb, log)
	hasher := auth.DefaultHasher()

	// Broker connectivity is lazy: the publisher dials on first use, so
	// startup does not depend on RabbitMQ being up.
	mailPublisher := mail.NewPublisher(cfg.AMQPURL, log)
	defer mailPublisher.Close()

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	condominiumRepository := condominium.NewPostgresRepository(pool)
	condominiumService := condominium.NewService(condominiumRepository, appCache, log)
	condominiumHandler := condominium.NewHandler(condominiumService)

	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, condominiumRepository, jwtSvc, hasher, mailPublisher, log)
	authHandler := auth.NewHandler(authService, jwtSvc)

	accountRepository := account.NewAccountRepository(pool)
	accountService := account.NewService(accountRepository, appCache, hasher, log)
	accountHandler := account.NewHandler(accountService)

	buildingRepository := building.NewPostgresRepository(pool)
	buildingService := building.NewService(buildingRepository, appCache, log)
	buildingHandler := building.NewHandler(buildingService)

	unitRepository := unit.NewPostgresRepository(pool)
	unitService := unit.NewService(unitRepository, appCache, log)
	unitHandler := unit.NewHandler(unitService)

	residentRepository := resident.NewPostgresRepository(pool)
	residentService := resident.NewService(residentRepository, appCache, log)
	residentHandler := resident.NewHandler(residentService)

	commonSpaceRepository := commonspace.NewPostgresRepository(pool)
	commonSpaceService := commonspace.NewService(commonSpaceRepository, appCache, log)
	commonSpaceHandler := commonspace.NewHandler(commonSpaceService)

	reservationRepository := reservation.NewPostgresRepository(pool)
	reservationService := reservation.NewService(reservationRepository, commonSpaceService, residentService, appCache, mailPublisher, log)
	reservationHandler := reservation.NewHandler(reservationService)

	paymentRepository := payment.NewPostgresRepository(pool)
	expenseRepository := payment.NewPostgresExpenseRepository(pool)
	paymentService := payment.NewService(paymentRepository, expenseRepository, residentService, appCache, mailPublisher, log)
	paymentHandler := payment.NewHandler(paymentService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Auth:        authHandler,
		Account:     accountHandler,
		Condominium: condominiumHandler,
		Building:    buildingHandler,
		Unit:        unitHandler,
		Resident:    residentHandler,
		CommonSpace: commonSpaceHandler,
		Reservation: reservationHandler,
		Payment:     paymentHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

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
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
