package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sensorcast/sensorcast/internal/config"
	"github.com/sensorcast/sensorcast/internal/forecast"
	"github.com/sensorcast/sensorcast/internal/logging"
	"github.com/sensorcast/sensorcast/internal/modelstore"
	"github.com/sensorcast/sensorcast/internal/queue"
	"github.com/sensorcast/sensorcast/internal/router"
	"github.com/sensorcast/sensorcast/internal/scheduler"
	"github.com/sensorcast/sensorcast/internal/stats"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Forecaster service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	// Statistics source with per-window caching
	var source stats.Source = stats.NewHTTPSource(cfg.Stats.BaseURL, cfg.Stats.APIKey, cfg.Stats.Timeout)
	source = stats.NewCachedSource(source, cfg.Stats.CacheTTL)
	logger.Info("Statistics source configured",
		"base_url", cfg.Stats.BaseURL, "cache_ttl", cfg.Stats.CacheTTL)

	// Model snapshot store
	store, err := modelstore.NewStore(cfg.Storage.ModelDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize model store", "error", err)
	}

	// Connect to Queue (configurable backend)
	logger.Info("Connecting to Queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
	publisher, err := queue.NewPublisher(cfg.Queue)
	if err != nil {
		logger.Fatal("Failed to connect to Queue", "error", err)
	}
	defer func() { _ = publisher.Close() }()
	logger.Info("Queue connection established")

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	// Build one runner per configured forecaster
	manager := scheduler.NewManager(logger)
	for _, fc := range cfg.Forecasters {
		engine, err := buildEngine(fc, cfg, source, store, logger)
		if err != nil {
			logger.Fatal("Failed to build forecaster",
				"forecaster_id", fc.ID, "error", err)
		}
		manager.Add(scheduler.NewRunner(engine, fc.Name, fc.Type, fc.Model,
			cfg.Update.Interval, publisher, logger))
	}
	logger.Info("Forecasters configured", "count", len(cfg.Forecasters))

	// Create context for background services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager.Start(ctx)

	// Initialize router
	app := router.New(logger, manager, *cfg)

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort)
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with 10 second timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Stop runners last so every model writes a final snapshot
	manager.Stop(shutdownCtx)

	logger.Info("Server exited")
}

// buildEngine constructs the engine matching a forecaster's configured
// type.
func buildEngine(fc config.ForecasterConfig, cfg *config.Config,
	source stats.Source, store *modelstore.Store, logger *logging.Logger,
) (forecast.Engine, error) {
	switch fc.Type {
	case config.ForecasterHistoricalShift:
		return forecast.NewShiftEngine(fc.ID, fc.SourceEntity,
			fc.HistoryDays, fc.ForecastHours, source, logger), nil

	case config.ForecasterOnlineML:
		return forecast.NewOnlineEngine(fc.ID, fc.InputEntities, fc.OutputEntity,
			fc.Model, fc.HistoryDays, fc.ForecastHours, cfg.Update.Interval, source, store, logger)

	default:
		return nil, fmt.Errorf("unsupported forecaster type: %s", fc.Type)
	}
}
