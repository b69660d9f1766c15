package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"idish/internal/config"
	"idish/internal/events"
	"idish/internal/export"
	"idish/internal/idish"
	"idish/internal/logging"
	"idish/internal/metrics"
	"idish/internal/session"
	"idish/internal/upload"
	"idish/internal/web"

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
		defer func() { _ = closer.Close() }()
	}

	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("export directory creation failed")
		return err
	}

	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := initSessions(ctx, cfg, logger)

	uploader, err := upload.New(cfg.Upload, cfg.Backend.BaseURL, logger)
	if err != nil {
		logger.Error().Err(err).Msg("uploader init failed")
		return err
	}

	bus := events.NewEventBus()
	busLogger := logging.Component(logger, "events")
	bus.SubscribeAll(events.AllEventTypes(), events.LogHandler(&busLogger))
	bus.SubscribeAll(events.AllEventTypes(), events.MetricsHandler())

	server, err := web.NewServer(web.Deps{
		Config:   cfg,
		Logger:   logger,
		Sessions: sessions,
		Backend:  idish.NewClient(cfg.Backend.BaseURL, logger),
		Uploader: uploader,
		Exporter: export.NewExporter(cfg.Exports.Path, logger),
		Bus:      bus,
	})
	if err != nil {
		logger.Error().Err(err).Msg("server init failed")
		return err
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("web server error")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closer, nil
}

// initSessions wires the session store: Redis primary with in-memory
// failover when enabled, plain in-memory otherwise.
func initSessions(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *session.Manager {
	ttl := time.Duration(cfg.Session.TTLSeconds) * time.Second
	fallback := session.NewMemoryRepository(ttl)

	var repo session.Repository = fallback
	if cfg.Redis.Enabled {
		redisClient := session.NewRedisClient(cfg.Redis)
		if err := session.Ping(ctx, redisClient); err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable")
		}
		repo = session.NewFailoverRepository(session.NewRedisRepository(redisClient, ttl), fallback, logger)
	}

	return session.NewManager(repo, logger)
}
