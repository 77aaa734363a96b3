package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/state"
)

// Notifier delivers newly raised alerts and orders to people.
type Notifier interface {
	NotifyAlerts(ctx context.Context, alerts []models.StockAlert) error
	NotifyOrders(ctx context.Context, orders []models.PurchaseOrder) error
}

// Watcher periodically evaluates stock alerts and auto-order rules against the cached
// inventory. Kick requests an evaluation ahead of the next tick.
type Watcher struct {
	state       *state.Store
	alerts      *AlertEngine
	procurement *Procurement
	notifier    Notifier
	interval    time.Duration
	log         *zap.Logger
	now         func() time.Time
	kick        chan struct{}
}

func NewWatcher(st *state.Store, alerts *AlertEngine, procurement *Procurement, notifier Notifier, interval time.Duration, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Watcher{
		state:       st,
		alerts:      alerts,
		procurement: procurement,
		notifier:    notifier,
		interval:    interval,
		log:         log,
		now:         time.Now,
		kick:        make(chan struct{}, 1),
	}
}

// Kick schedules an evaluation without blocking. Kicks that arrive while one is
// already queued are merged.
func (w *Watcher) Kick() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// Run evaluates once, then on every tick or kick until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	w.Evaluate(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		case <-w.kick:
		}
		w.Evaluate(ctx)
	}
}

// Evaluate runs one pass and notifies about what is new.
func (w *Watcher) Evaluate(ctx context.Context) ([]models.StockAlert, []models.PurchaseOrder) {
	items := w.state.InventoryItems()
	raised := w.alerts.Evaluate(items, w.now())
	var orders []models.PurchaseOrder
	if w.procurement != nil {
		orders = w.procurement.Check(items)
	}

	if len(raised) > 0 {
		w.log.Info("stock alerts raised", zap.Int("count", len(raised)))
		if w.notifier != nil {
			if err := w.notifier.NotifyAlerts(ctx, raised); err != nil {
				w.log.Warn("alert notification failed", zap.Error(err))
			}
		}
	}
	if len(orders) > 0 {
		w.log.Info("auto orders created", zap.Int("count", len(orders)))
		if w.notifier != nil {
			if err := w.notifier.NotifyOrders(ctx, orders); err != nil {
				w.log.Warn("order notification failed", zap.Error(err))
			}
		}
	}
	return raised, orders
}
