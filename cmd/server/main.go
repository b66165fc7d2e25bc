// Package main implements the entry point for the LexiDrill API server,
// which drives single-learner vocabulary drilling sessions and the
// AI-backed asset generation pipeline behind them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/lexidrill/lexidrill-api/internal/config"
	"github.com/lexidrill/lexidrill-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"run a migration command (up, down, status) and exit",
	)
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// run loads configuration, wires the application, and either runs a
// migration command or starts the HTTP server. Split from main so the
// exit path stays in one place.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"upload_dir", cfg.Assets.UploadDir,
		"asset_concurrency", cfg.Assets.Concurrency)

	if migrateCmd != "" {
		return runMigrations(cfg, migrateCmd)
	}

	ctx := context.Background()

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		app.cleanup()
		return err
	}
	return nil
}
