package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kailas-cloud/strdex/internal/config"
	"github.com/kailas-cloud/strdex/internal/db"
	dbMemory "github.com/kailas-cloud/strdex/internal/db/memory"
	dbPostgres "github.com/kailas-cloud/strdex/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/strdex/internal/db/redis"
	"github.com/kailas-cloud/strdex/internal/domain/query"
	logpkg "github.com/kailas-cloud/strdex/internal/logger"
	"github.com/kailas-cloud/strdex/internal/metrics"
	"github.com/kailas-cloud/strdex/internal/ratelimit"
	recordrepo "github.com/kailas-cloud/strdex/internal/repository/record"
	chiTransport "github.com/kailas-cloud/strdex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/strdex/internal/usecase/health"
	recorduc "github.com/kailas-cloud/strdex/internal/usecase/record"
	"github.com/kailas-cloud/strdex/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting strdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx := context.Background()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterDomainMetrics()

	translator := query.New()
	logger.Debug("Query translator ready", zap.Strings("rules", translator.Rules()))

	repo := recordrepo.New(store, cfg.Storage.KeyPrefix)
	recordSvc := recorduc.New(repo, translator).WithMaxValueBytes(cfg.Strings.MaxValueBytes)
	healthSvc := healthuc.New(store).WithCheck("translator", translatorProbe(translator))

	server := chiTransport.NewServer(recordSvc, healthSvc, logger)

	limiter := ratelimit.New(ratelimit.Config{
		RPS:   cfg.RateLimit.RPS,
		Burst: cfg.RateLimit.Burst,
	})
	defer limiter.Stop()

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
			MaxAge:         cfg.CORS.MaxAgeSec,
		}))
	}
	r.Use(ratelimit.Middleware(limiter, ratelimit.ClientIP, chiTransport.RateLimitedHandler))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.BindErrorHandler,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// openStore builds the key-value backend selected by database.driver.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return dbMemory.NewStore(), nil
	case config.DriverRedis, config.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := dbPostgres.NewStore(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := s.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			s.Close()
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// translatorProbe checks that the translator still understands a known phrase.
func translatorProbe(t *query.Translator) healthuc.CheckFunc {
	return func(context.Context) error {
		spec, err := t.Translate("single word palindromes")
		if err != nil {
			return fmt.Errorf("translator probe: %w", err)
		}
		if spec.IsEmpty() {
			return errors.New("translator probe: no filters produced")
		}
		return nil
	}
}
