package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hotel-inventory-api/internal/config"
	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/repository/memory"
	"hotel-inventory-api/internal/state"
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts [][]models.StockAlert
	orders [][]models.PurchaseOrder
	calls  chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{calls: make(chan struct{}, 16)}
}

func (n *recordingNotifier) NotifyAlerts(_ context.Context, a []models.StockAlert) error {
	n.mu.Lock()
	n.alerts = append(n.alerts, a)
	n.mu.Unlock()
	n.calls <- struct{}{}
	return nil
}

func (n *recordingNotifier) NotifyOrders(_ context.Context, o []models.PurchaseOrder) error {
	n.mu.Lock()
	n.orders = append(n.orders, o)
	n.mu.Unlock()
	return nil
}

func (n *recordingNotifier) alertBatches() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

func newWatcher(t *testing.T, st *state.Store, n Notifier) *Watcher {
	t.Helper()
	db := memory.New()
	db.SeedSuppliers()
	proc := config.DefaultProcurement()
	w := NewWatcher(st, NewAlertEngine(proc), NewProcurement(proc, db.Suppliers(), nil), n, time.Hour, zap.NewNop())
	w.now = func() time.Time { return t0 }
	return w
}

func TestEvaluateNotifiesOnlyNewAlerts(t *testing.T) {
	st := state.New()
	st.LoadInventory(withStock(map[string]int{"Laptop": 5, "Masaüstü": 3, "Monitör": 10, "Yazıcı": 1}))
	n := newRecordingNotifier()
	w := newWatcher(t, st, n)

	alerts, orders := w.Evaluate(context.Background())
	require.Len(t, alerts, 1)
	assert.Equal(t, "low-stock-Yazıcı", alerts[0].ID)
	require.Len(t, orders, 1)
	assert.Equal(t, "Laptop", orders[0].Category)
	assert.Len(t, n.orders, 1)

	alerts, orders = w.Evaluate(context.Background())
	assert.Empty(t, alerts)
	assert.Empty(t, orders)
	assert.Equal(t, 1, n.alertBatches())
}

func TestRunEvaluatesOnKick(t *testing.T) {
	st := state.New()
	st.LoadInventory(withStock(map[string]int{"Laptop": 5, "Masaüstü": 3, "Monitör": 10, "Yazıcı": 2}))
	n := newRecordingNotifier()
	w := newWatcher(t, st, n)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// Stock drops; a kick picks it up without waiting for the tick.
	st.LoadInventory(withStock(map[string]int{"Laptop": 5, "Masaüstü": 3, "Monitör": 10}))
	w.Kick()

	select {
	case <-n.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("no alert notification after kick")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestKickDoesNotBlock(t *testing.T) {
	w := newWatcher(t, state.New(), nil)
	for i := 0; i < 10; i++ {
		w.Kick()
	}
	assert.Len(t, w.kick, 1)
}
