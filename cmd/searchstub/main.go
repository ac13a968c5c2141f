package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchstub/internal/config"
	"github.com/kailas-cloud/searchstub/internal/db"
	"github.com/kailas-cloud/searchstub/internal/db/memory"
	dbRedis "github.com/kailas-cloud/searchstub/internal/db/redis"
	logpkg "github.com/kailas-cloud/searchstub/internal/logger"
	"github.com/kailas-cloud/searchstub/internal/metrics"
	fixturerepo "github.com/kailas-cloud/searchstub/internal/repository/fixture"
	chiTransport "github.com/kailas-cloud/searchstub/internal/transport/chi"
	healthuc "github.com/kailas-cloud/searchstub/internal/usecase/health"
	"github.com/kailas-cloud/searchstub/internal/usecase/scenario"
	sessionuc "github.com/kailas-cloud/searchstub/internal/usecase/session"
	"github.com/kailas-cloud/searchstub/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, closeLog, err := logpkg.New(env, cfg.Logging.Level, logpkg.FileConfig{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = closeLog() }()

	logger.Info("Starting searchstub",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("api_base_url", cfg.API.BaseURL),
	)

	store, err := newStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register fixture metrics explicitly (no init())
	metrics.RegisterFixtureMetrics()

	repo := fixturerepo.New(store, fixturerepo.Options{
		KeyPrefix:       cfg.Registry.KeyPrefix,
		TTL:             cfg.RegistryTTL(),
		CacheSize:       cfg.Registry.CacheSize,
		RegisteredTotal: metrics.FixturesRegisteredTotal,
		ResolveTotal:    metrics.FixtureResolveTotal,
		CacheTotal:      metrics.FixtureCacheTotal,
	}, logger)

	sessions := sessionuc.New(repo, scenario.Options{
		BaseURL:     cfg.API.BaseURL,
		Published:   cfg.Published(),
		ListingSize: cfg.Fixtures.ListingSize,
	}, logger)

	if cfg.Scenario.File != "" {
		if err := preload(ctx, sessions, cfg.Scenario, logger); err != nil {
			logger.Fatal("Failed to preload scenario", zap.Error(err))
		}
	}

	healthSvc := healthuc.New(store, sessions)
	server := chiTransport.NewServer(sessions, healthSvc, cfg.API.BaseURL, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newStore creates the fixture store for the configured driver.
func newStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverRedis, config.DriverValkey:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
			RESP2:    cfg.RESP2,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// preload opens the configured session and applies the plan file to it.
func preload(ctx context.Context, sessions *sessionuc.Service, cfg config.ScenarioConfig, logger *zap.Logger) error {
	plan, err := scenario.LoadPlan(cfg.File)
	if err != nil {
		return err
	}
	id, err := sessions.Open(ctx, cfg.SessionID)
	if err != nil {
		return fmt.Errorf("open session %s: %w", cfg.SessionID, err)
	}
	n, err := sessions.Apply(ctx, id, plan)
	if err != nil {
		return fmt.Errorf("apply %s: %w", cfg.File, err)
	}
	logger.Info("Scenario preloaded",
		zap.String("session", id),
		zap.String("file", cfg.File),
		zap.Int("steps", len(plan.Steps)),
		zap.Int("fixtures", n),
	)
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
