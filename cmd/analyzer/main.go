package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"capitalperf/internal/analyzer"
	"capitalperf/internal/api"
	"capitalperf/internal/auth"
	"capitalperf/internal/cache"
	"capitalperf/internal/config"
	"capitalperf/internal/database"
	"capitalperf/internal/report"
	"capitalperf/internal/sink"
	"capitalperf/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/analyzer.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// Set up structured logging
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting analyzer",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Credentials usually live in .env rather than the YAML file.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"api_url", cfg.API.BaseURL,
		"categories", cfg.Analyzer.Categories,
		"csv", cfg.Output.CSVPath,
	)

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

	// Create API client
	creds := auth.Credentials{
		APIKey:     cfg.API.APIKey,
		Identifier: cfg.API.Identifier,
		Password:   cfg.API.Password,
	}
	client := api.NewClient(
		cfg.API.BaseURL,
		creds,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
		api.WithRequestDelay(cfg.Analyzer.RequestDelay),
		api.WithPingEvery(cfg.Analyzer.PingEvery),
	)

	// Authenticate up front so bad credentials fail fast
	logger.Info("authenticating")
	if err := client.CreateSession(ctx); err != nil {
		logger.Error("authentication failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		logoutCtx, logoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer logoutCancel()
		if err := client.Logout(logoutCtx); err != nil {
			logger.Debug("logout failed", "error", err)
		}
	}()

	runID := uuid.New()

	// Historical closes come straight from the API unless Redis caching
	// is enabled. A dead cache downgrades to uncached, not a failure.
	var prices analyzer.PriceSource = client
	if cfg.Cache.Enabled {
		pc, err := cache.New(cfg.Cache, client, logger)
		if err != nil {
			logger.Warn("price cache unavailable, continuing without it", "error", err)
		} else {
			defer pc.Close()
			prices = pc
			logger.Info("price cache enabled", "addr", cfg.Cache.Addr)
		}
	}

	// The CSV snapshot is always written; databases are opt-in.
	sinks := []sink.Sink{&sink.CSV{Path: cfg.Output.CSVPath}}
	switch cfg.Database.Driver {
	case "postgres":
		logger.Info("connecting to database",
			"host", cfg.Database.Postgres.Host,
			"port", cfg.Database.Postgres.Port,
			"database", cfg.Database.Postgres.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database.Postgres)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := database.EnsureSchema(ctx, pool); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, sink.NewPostgres(pool, runID, logger))
	case "sqlite":
		st, err := sink.OpenSQLite(cfg.Database.SQLite.Path, runID, logger)
		if err != nil {
			logger.Error("failed to open sqlite database", "error", err)
			os.Exit(1)
		}
		defer st.Close()
		sinks = append(sinks, st)
	}

	// Run the sweep
	a := analyzer.New(analyzer.Config{
		RunID:      runID,
		Categories: cfg.Analyzer.Categories,
		Limits:     cfg.Analyzer.Limits,
	}, client, prices, logger)

	rows, stats, err := a.Run(ctx)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if err := sink.Multi(sinks).Write(ctx, rows); err != nil {
		logger.Error("failed to store results", "error", err)
		os.Exit(1)
	}

	fmt.Print(report.Render(rows))
	fmt.Printf("\nFull data available in: %s\n", cfg.Output.CSVPath)

	logger.Info("analysis complete",
		"run_id", runID,
		"markets", stats.Markets,
		"rows", stats.Rows,
		"skipped", stats.Skipped,
		"failed_categories", stats.Failed,
		"elapsed", stats.Elapsed,
	)
}
