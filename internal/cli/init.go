// Package cli provides common CLI initialization utilities shared by
// cmd/steamstats and cmd/report-history.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"steamstats/internal/config"
	"steamstats/internal/log"
	"steamstats/internal/storage"
)

// SetupLogger builds the application logger at the given level, writing to
// stderr so report output on stdout stays clean, and sets it as the default.
func SetupLogger(level slog.Level, component string) *log.Logger {
	return setupLogger(os.Stderr, level, component)
}

func setupLogger(w io.Writer, level slog.Level, component string) *log.Logger {
	logger := log.New(log.Config{
		Level:     level,
		Component: component,
		Output:    w,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig applies overrides to the environment config and
// validates the result. Exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger, overrides ...func(*config.Config)) *config.Config {
	cfg, err := loadConfig(overrides...)
	if err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func loadConfig(overrides ...func(*config.Config)) (*config.Config, error) {
	cfg := config.Load()
	// Re-infer the source type after overrides unless it was set explicitly.
	cfg.SourceType = os.Getenv("SOURCE_TYPE")
	for _, o := range overrides {
		o(cfg)
	}
	cfg.SourceType = cfg.ResolveSourceType()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitSQLite initializes a SQLite repository with the given path.
// Exits the process on failure.
func InitSQLite(logger *log.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Debug("Shutdown signal received or run finished")
	}()
	return ctx, cancel
}
