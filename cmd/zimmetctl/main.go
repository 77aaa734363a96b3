// Command zimmetctl manages the hotel inventory store from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hotel-inventory-api/internal/cli"
	"hotel-inventory-api/internal/config"
	"hotel-inventory-api/internal/logging"
	"hotel-inventory-api/internal/migrate"
)

func main() {
	cfg := config.Load()
	if err := cfg.ValidateStore(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	// Service info logs stay quiet unless LOG_LEVEL asks for them.
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger, err := logging.New(level, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	app := cli.NewApp(cfg, logger)
	if cfg.Store == config.StorePostgres {
		app.Migrate = func(ctx context.Context) error { return migrate.Up(ctx, cfg.DBDSN) }
		app.MigrationVersion = func(ctx context.Context) (int64, error) { return migrate.VersionDSN(ctx, cfg.DBDSN) }
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := cli.NewRootCommand(app).ExecuteContext(ctx); err != nil {
		stop()
		app.Close()
		os.Exit(1)
	}
}
