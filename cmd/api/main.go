package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pictiv/internal/api"
	"pictiv/internal/config"
	"pictiv/internal/database"
	"pictiv/internal/domain"
	"pictiv/internal/events"
	"pictiv/internal/google"
	"pictiv/internal/logging"
	"pictiv/internal/metrics"
	"pictiv/internal/ratelimit"
	"pictiv/internal/service"
	"pictiv/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := initStore(ctx, cfg, logger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.Close(closeCtx)
	}()

	redisClient := initRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer func() { _ = ratelimit.Close(redisClient) }()
	}

	eventBus := events.NewEventBus()
	eventBus.OnError(func(event *events.Event, err error) {
		logger.Warn().Err(err).Str("event", event.Type).Msg("event handler failed")
	})
	initSheetsMirror(ctx, cfg, eventBus, redisClient, logger)

	catalogLogger := logging.Component(logger, "catalog")
	submissionLogger := logging.Component(logger, "submissions")
	deps := api.Dependencies{
		Catalog:     service.NewCatalogService(store, &catalogLogger),
		Submissions: service.NewSubmissionService(store, eventBus, cfg.Studio.WhatsApp, &submissionLogger),
		Diagnostics: service.NewDiagnosticsService(store, cfg.Database),
		Limiter:     initLimiter(cfg, redisClient, logger),
	}
	httpServer := api.NewHTTPServer(cfg.HTTP, deps, logger)

	var grpcServer *api.GRPCServer
	if cfg.GRPC.Enabled {
		grpcServer, err = api.NewGRPCServer(cfg.GRPC, store, logger)
		if err != nil {
			logger.Error().Err(err).Msg("create grpc server")
			return err
		}
	}

	startMetrics(ctx, cfg, logger)

	return startServers(ctx, grpcServer, httpServer, cfg, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, baseLogger, closer, nil
}

// initStore never fails: without a reachable database the API keeps serving
// catalog defaults and rejects submissions with 503.
func initStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) database.Store {
	dbLogger := logging.Component(logger, "database")
	store, err := database.Open(ctx, cfg.Database, &dbLogger)
	if err != nil {
		if errors.Is(err, database.ErrNotConfigured) {
			logger.Warn().Msg("DATABASE_URL not set, running without database")
		} else {
			logger.Warn().Err(err).Msg("database connection failed, running without database")
		}
		return database.Unavailable(err)
	}

	logger.Info().Str("database", store.Name()).Msg("database connected")
	return store
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := ratelimit.NewRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := ratelimit.Ping(pingCtx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = redisClient.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initLimiter(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.SubmissionLimiter {
	perMinute := cfg.RateLimit.SubmissionsPerMinute
	if perMinute <= 0 {
		return nil
	}

	memory := ratelimit.NewMemoryLimiter(perMinute, cfg.RateLimit.Burst)
	if redisClient == nil {
		return memory
	}

	limiterLogger := logging.Component(logger, "ratelimit")
	return ratelimit.NewFailoverLimiter(
		ratelimit.NewRedisLimiter(redisClient, perMinute, time.Minute),
		memory,
		&limiterLogger,
	)
}

func initSheetsMirror(ctx context.Context, cfg *config.Config, bus *events.EventBus, redisClient *redis.Client, logger *zerolog.Logger) {
	if cfg.Google.CredentialsFile == "" || cfg.Google.SpreadsheetID == "" {
		return
	}

	sheetsService, err := google.NewSheetsService(ctx, cfg.Google.CredentialsFile, cfg.Google.SpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return
	}

	startSheetsMirror(ctx, sheetsService, bus, redisClient, logger)
}

// startSheetsMirror subscribes the sheets worker once the spreadsheet
// answers. It reports whether the mirror is running.
func startSheetsMirror(ctx context.Context, sheets domain.SheetsClient, bus *events.EventBus, redisClient *redis.Client, logger *zerolog.Logger) bool {
	testCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sheets.TestConnection(testCtx); err != nil {
		logger.Warn().Err(err).Msg("google sheets connection test failed, continuing without sheets")
		return false
	}

	workerLogger := logging.Component(logger, "sheets")
	sheetsWorker := worker.NewSheetsWorker(sheets, redisClient, worker.MirrorRetryPolicy(), &workerLogger)
	bus.Subscribe(events.EventBookingReceived, sheetsWorker.HandleEvent)
	bus.Subscribe(events.EventInquiryReceived, sheetsWorker.HandleEvent)
	go sheetsWorker.Start(ctx)

	logger.Info().Msg("google sheets mirror enabled")
	return true
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func startServers(
	ctx context.Context,
	grpcServer *api.GRPCServer,
	httpServer *api.HTTPServer,
	cfg *config.Config,
	logger *zerolog.Logger,
) error {
	errCh := make(chan error, 2)

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Serve(); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	logger.Info().Int("http_port", cfg.HTTP.Port).Bool("grpc", grpcServer != nil).Msg("API server started")

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case runErr = <-errCh:
		logger.Error().Err(runErr).Msg("server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if grpcServer != nil {
		grpcServer.Shutdown(shutdownCtx)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}

	logger.Info().Msg("API server stopped")
	return runErr
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
