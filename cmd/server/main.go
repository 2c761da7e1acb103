package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stwalsh4118/pie/internal/config"
	"github.com/stwalsh4118/pie/internal/db"
	"github.com/stwalsh4118/pie/internal/logger"
	"github.com/stwalsh4118/pie/internal/preferences"
	"github.com/stwalsh4118/pie/internal/server"
	"github.com/stwalsh4118/pie/internal/toolcheck"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	if err := run(cfg); err != nil {
		logger.Log.Error().Err(err).Msg("Service exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	database, err := db.Open(cfg.Database.Path, db.Options{
		EnableWAL:         cfg.Database.EnableWAL,
		ConnectionTimeout: cfg.Database.ConnectionTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to open settings database: %w", err)
	}

	if err := database.Migrate(cfg.Database.MigrationsPath); err != nil {
		_ = database.Close()
		return fmt.Errorf("failed to migrate settings database: %w", err)
	}

	store := db.NewStore(database)
	validator := toolcheck.New(cfg.Tools.ProbeTimeout)
	service := preferences.NewService(store, validator)

	// A storage failure here still leaves defaults usable for the session
	if _, err := service.Load(context.Background()); err != nil {
		logger.Log.Warn().Err(err).Msg("Starting with default settings")
	}

	srv := server.New(cfg, store, service, validator)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigCh:
		logger.Log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case serveErr = <-errCh:
		if serveErr != nil {
			logger.Log.Error().Err(serveErr).Msg("HTTP server failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return errors.Join(serveErr, srv.Shutdown(ctx))
}
