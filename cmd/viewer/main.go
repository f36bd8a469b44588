package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"capitalperf/internal/config"
	"capitalperf/internal/version"
	"capitalperf/internal/viewer"
)

func main() {
	configPath := flag.String("config", "configs/analyzer.yaml", "path to config file")
	port := flag.Int("port", 0, "listen port (overrides config)")
	csvPath := flag.String("csv", "", "path to results CSV (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting viewer",
		"version", version.Version,
		"commit", version.Commit,
	)

	// The viewer needs no credentials, so a missing config file just
	// means defaults plus whatever the flags override.
	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = config.Defaults()
	}

	if *port > 0 {
		cfg.Viewer.Port = *port
	}
	if *csvPath != "" {
		cfg.Output.CSVPath = *csvPath
	}

	srv := viewer.NewServer(cfg.Viewer.Port, cfg.Output.CSVPath, logger)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	go func() {
		fmt.Printf("Open your browser and go to: http://localhost:%d\n", cfg.Viewer.Port)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("viewer server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("viewer stopped")
}
