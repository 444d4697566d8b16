// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Wild Oasis HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when configured.
//  5. Run database migrations (idempotent).
//  6. Build object storage, email and token services.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/wildoasis/internal/api"
	"github.com/taibuivan/wildoasis/internal/core/booking"
	"github.com/taibuivan/wildoasis/internal/core/cabin"
	"github.com/taibuivan/wildoasis/internal/core/guest"
	"github.com/taibuivan/wildoasis/internal/core/setting"
	"github.com/taibuivan/wildoasis/internal/platform/config"
	"github.com/taibuivan/wildoasis/internal/platform/constants"
	"github.com/taibuivan/wildoasis/internal/platform/mailer"
	"github.com/taibuivan/wildoasis/internal/platform/middleware"
	"github.com/taibuivan/wildoasis/internal/platform/migration"
	pgstore "github.com/taibuivan/wildoasis/internal/platform/postgres"
	redisstore "github.com/taibuivan/wildoasis/internal/platform/redis"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
	"github.com/taibuivan/wildoasis/internal/platform/storage"
	"github.com/taibuivan/wildoasis/internal/platform/upload"
	"github.com/taibuivan/wildoasis/internal/users/apikey"
	"github.com/taibuivan/wildoasis/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

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
		slog.String("notifier", cfg.Notifier),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Background workers (rate limiter eviction) stop with this context.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var (
		rdb     *goredis.Client
		limiter middleware.Limiter
	)
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()
		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow)
	} else {
		log.Warn("redis_not_configured", slog.String("rate_limiter", "local"))
		limiter = middleware.NewLocalLimiter(appCtx, cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	must(log, err, "parse trusted proxies")

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Platform Services ──────────────────────────────────────────────
	images := upload.NewImages(storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3PublicURL))

	notifier, closeNotifier, err := newNotifier(cfg, log)
	must(log, err, "initialize notifier")
	defer closeNotifier()

	tokens := sec.NewTokenService(cfg.JWTSecret, constants.AppName, cfg.JWTExpiresIn)
	cookies := sec.NewCookieSigner(constants.SessionCookieName, cfg.CookieSecret, cfg.CookieTTL())

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	cabinStore := cabin.NewStore(pool)
	cabinHandler := cabin.NewHandler(cabinStore, cabin.NewService(cabinStore, images))

	guestHandler := guest.NewHandler(guest.NewStore(pool))

	bookingStore := booking.NewStore(pool)
	bookingHandler := booking.NewHandler(bookingStore, booking.NewService(bookingStore))

	settingStore := setting.NewStore(pool)
	settingHandler := setting.NewHandler(settingStore, setting.NewService(settingStore))

	userRepository := auth.NewPostgresRepository(pool)
	authService := auth.NewService(userRepository, tokens, notifier, images, auth.Options{
		AppURL:          cfg.ClientStaffAppURL,
		DefaultAvatar:   cfg.DefaultAvatarURL,
		VerificationTTL: cfg.VerificationTokenTTL(),
		ResetTTL:        cfg.ResetTokenTTL(),
	})
	authHandler := auth.NewHandler(userRepository, authService, cookies)

	apiKeyService := apikey.NewService(apikey.NewPostgresRepository(pool), cfg.HMACSecret, cfg.APIKeyTTL())
	apiKeyHandler := apikey.NewHandler(apiKeyService)

	access := middleware.NewAccess(apiKeyService, cookies, authService)

	// ── 8. Observability ──────────────────────────────────────────────────
	var registry *prometheus.Registry
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	health := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
	}
	if rdb != nil {
		health.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, api.Dependencies{
		Access:   access,
		Limiter:  limiter,
		Proxies:  proxies,
		Registry: registry,
	}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Cabins:    cabinHandler,
		Guests:    guestHandler,
		Bookings:  bookingHandler,
		Settings:  settingHandler,
		Users:     authHandler,
		APIKeys:   apiKeyHandler,
	})

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

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the JSON logger with the global app attribute.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", "wildoasis"))
}

// newNotifier selects the email transport. With NOTIFIER=amqp the API only
// publishes; cmd/mailworker performs the SMTP delivery.
func newNotifier(cfg *config.Config, log *slog.Logger) (mailer.Notifier, func(), error) {
	if cfg.Notifier == "amqp" {
		queue, err := mailer.NewQueue(cfg.AMQPURL, cfg.MailQueue, log)
		if err != nil {
			return nil, nil, err
		}
		return queue, func() {
			if err := queue.Close(); err != nil {
				log.Error("mail_queue_close_failed", slog.Any("error", err))
			}
		}, nil
	}

	smtp, err := mailer.NewSMTP(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	})
	if err != nil {
		return nil, nil, err
	}
	return smtp, func() {}, nil
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
