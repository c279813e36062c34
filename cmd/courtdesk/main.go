package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtdesk/internal/api"
	"courtdesk/internal/app"
	"courtdesk/internal/config"
	"courtdesk/internal/domain"
	"courtdesk/internal/events"
	"courtdesk/internal/export"
	"courtdesk/internal/logging"
	"courtdesk/internal/metrics"
	"courtdesk/internal/models"
	"courtdesk/internal/service"
	"courtdesk/internal/session"
	"courtdesk/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

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

	clock := domain.RealClock()

	st := store.New(clock)
	if err := store.Seed(st, clock); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}

	sessionRepo := initSessionRepo(cfg, &logger)
	sessions := session.NewService(cfg.Users, sessionRepo, clock, &logger)

	eventBus := events.NewEventBus()
	bookings := service.NewBookingService(st, eventBus, clock, &logger)
	a := app.New(st, bookings, sessions, cfg.Facility.Courts, clock, &logger)
	exporter := export.NewExporter(st, cfg.Facility.Courts, cfg.Exports.Path, &logger)

	httpServer := api.NewHTTPServer(cfg.API, a, sessions, exporter, clock, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "main").Logger()

	return cfg, logger, closer, nil
}

// initSessionRepo prefers redis when configured, wrapped in a failover so a
// redis outage degrades to in-memory sessions instead of locking everyone out.
func initSessionRepo(cfg *config.Config, logger *zerolog.Logger) domain.SessionRepository {
	memory := session.NewMemorySessionRepository()

	if !cfg.Redis.Enabled {
		return memory
	}

	client := session.NewRedisClient(cfg.Redis)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, using in-memory sessions")
		return memory
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	primary := session.NewRedisSessionRepository(client, models.SessionTTL*time.Second)
	return session.NewFailoverSessionRepository(primary, memory, logger)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Int("http_port", cfg.API.Port).Msg("courtdesk started")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	logger.Info().Msg("courtdesk stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
