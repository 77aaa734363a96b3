// Command api serves the hotel inventory HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hotel-inventory-api/internal"
	"hotel-inventory-api/internal/backend"
	"hotel-inventory-api/internal/config"
	"hotel-inventory-api/internal/logging"
	"hotel-inventory-api/internal/notify"
	"hotel-inventory-api/internal/realtime"
	"hotel-inventory-api/internal/service"
	"hotel-inventory-api/internal/state"
)

var version = "dev"

func main() {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting",
		zap.String("version", version),
		zap.String("store", cfg.Store),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("jwt_issuer", cfg.JWTIssuer),
		zap.Duration("jwt_expiry", cfg.JWTExpiry),
	)

	proc, err := config.LoadProcurement(cfg.ProcurementPath)
	if err != nil {
		return err
	}

	st, err := backend.Open(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer st.Close()

	metrics := internal.NewMetrics()
	cache := state.New()
	coord := service.NewCoordinator(st.Devices, st.Personnel, st.Assignments, cache, logger, service.WithRecorder(metrics))
	inv := service.NewInventory(st.Items, st.Maintenance, st.Audit, cache, logger)
	alerts := service.NewAlertEngine(proc)
	procurement := service.NewProcurement(proc, st.Suppliers, logger)

	slack := notify.NewSlack(cfg.SlackWebhookURL, logger)
	var notifier service.Notifier
	if slack.Enabled() {
		notifier = slack
	}
	watcher := service.NewWatcher(cache, alerts, procurement, notifier, cfg.AlertInterval, logger)
	inv.OnChange(watcher.Kick)

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	g, gctx := errgroup.WithContext(loadCtx)
	g.Go(func() error { return coord.Refresh(gctx) })
	g.Go(func() error { return inv.Refresh(gctx) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}

	srv, err := internal.NewServer(cfg, internal.Services{
		Coordinator: coord,
		Inventory:   inv,
		Alerts:      alerts,
		Procurement: procurement,
		Suppliers:   service.NewSuppliers(st.Suppliers, logger),
		Watcher:     watcher,
		Operators:   st.Operators,
		Settings:    proc,
		Ping:        st.Ping,
	}, metrics, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	workers, wctx := errgroup.WithContext(ctx)
	workers.Go(func() error {
		watcher.Run(wctx)
		return nil
	})
	if cfg.Store == config.StorePostgres {
		syncer := service.NewSyncer(coord, inv, logger)
		syncer.OnInventoryChange(watcher.Kick)
		listener := realtime.New(cfg.DBDSN, syncer, logger)
		listener.OnChange = metrics.RealtimeEvent
		workers.Go(func() error { return listener.Run(wctx) })
	}
	workers.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	workers.Go(func() error {
		<-wctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return workers.Wait()
}
