// Package main is the entry point for the GroupOrder Hub server, the
// HTTP backend for group-based food ordering.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/backup"
	"github.com/prn-tf/grouporder-hub/internal/config"
	"github.com/prn-tf/grouporder-hub/internal/handler"
	"github.com/prn-tf/grouporder-hub/internal/metrics"
	"github.com/prn-tf/grouporder-hub/internal/persist"
	"github.com/prn-tf/grouporder-hub/internal/seed"
	"github.com/prn-tf/grouporder-hub/internal/service"
	"github.com/prn-tf/grouporder-hub/internal/session"
	"github.com/prn-tf/grouporder-hub/internal/store"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := newLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("Starting GroupOrder Hub Server")

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Persistence and store
	file, err := persist.NewFile(cfg.Storage.DataFile, m, logger)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}
	st := store.Open(file, logger)

	// Session backend
	var sessions session.Store
	switch cfg.Sessions.Backend {
	case "redis":
		sessions, err = session.NewRedisStore(ctx, cfg.Sessions.Redis.Addr(), cfg.Sessions.Redis.Password, cfg.Sessions.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect session store: %w", err)
		}
	default:
		sessions = session.NewMemoryStore()
	}
	defer sessions.Close()

	// Services
	users := service.NewUserService(st, m, logger)
	catalog := service.NewCatalogService(st, logger)
	orders := service.NewOrderService(st, logger)
	groups := service.NewGroupService(st, logger)
	sessionSvc := service.NewSessionService(users, sessions, logger)

	// First-run seeding
	seeder := seed.New(st, users, logger)
	if err := seeder.Run(ctx, cfg.Seed, cfg.Auth); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	// Backup scheduler
	if cfg.Backup.Enabled {
		uploader, err := backup.NewS3Uploader(ctx, backup.S3Config{
			Endpoint:        cfg.Backup.S3.Endpoint,
			Region:          cfg.Backup.S3.Region,
			Bucket:          cfg.Backup.S3.Bucket,
			AccessKeyID:     cfg.Backup.S3.AccessKeyID,
			SecretAccessKey: cfg.Backup.S3.SecretAccessKey,
			UsePathStyle:    cfg.Backup.S3.UsePathStyle,
		})
		if err != nil {
			return fmt.Errorf("failed to build backup uploader: %w", err)
		}

		scheduler := backup.NewScheduler(file, uploader, m, logger, backup.Config{
			Interval: cfg.Backup.Interval,
			Prefix:   cfg.Backup.S3.Prefix,
		})
		scheduler.Start()
		defer scheduler.Stop()
	}

	// HTTP API
	router := handler.NewRouter(handler.RouterConfig{
		AuthHandler:    handler.NewAuthHandler(users, sessionSvc, logger),
		ProductHandler: handler.NewProductHandler(catalog, logger),
		OrderHandler:   handler.NewOrderHandler(orders, logger),
		AdminHandler:   handler.NewAdminHandler(users, orders, groups, logger),
		SessionService: sessionSvc,
		Metrics:        m,
		DemoMode:       cfg.Auth.DemoMode,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Bool("demo_mode", cfg.Auth.DemoMode).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newLogger builds the root logger from the logging config.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = cfg.TimeFormat

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(out)
	}

	return logger.Level(level).With().Timestamp().Logger()
}
