package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"expensetracker/internal/config"
	applog "expensetracker/internal/log"
	"expensetracker/internal/storage"
	"expensetracker/internal/tracker"
)

// SetupLogger installs a process-wide structured logger.
func SetupLogger(component string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Component = component
	if os.Getenv("LOG_LEVEL") == "debug" {
		cfg.Level = slog.LevelDebug
	}

	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development. Missing files are fine.
func LoadEnvFile(logger *applog.Logger) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", applog.FieldError, err.Error())
	}
}

// LoadAndValidateConfig loads the environment configuration and exits the
// process when it is invalid.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// OpenStore opens the store named by the configuration.
func OpenStore(cfg *config.Config, logger *applog.Logger) (tracker.Store, error) {
	switch cfg.Store {
	case "memory":
		logger.Info("Using in-memory store")
		return storage.NewMemoryStore(), nil
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("Using SQLite store", "path", cfg.SQLiteDBPath)
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// GracefulShutdown blocks until SIGINT or SIGTERM, then runs stop with a
// bounded context.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, stop func(ctx context.Context) error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := stop(ctx); err != nil {
		logger.Error("Shutdown error", applog.FieldError, err.Error())
	}
}
