package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-inventory-api/internal/config"
	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
)

func stock(category string, n int) []models.InventoryItem {
	out := make([]models.InventoryItem, n)
	for i := range out {
		out[i] = models.InventoryItem{
			ID:            fmt.Sprintf("%s-%d", category, i),
			ItemName:      category,
			Category:      category,
			CurrentStatus: models.InventoryInStock,
		}
	}
	return out
}

func withStock(counts map[string]int) []models.InventoryItem {
	var out []models.InventoryItem
	for cat, n := range counts {
		out = append(out, stock(cat, n)...)
	}
	return out
}

func alertByID(alerts []models.StockAlert, id string) (models.StockAlert, bool) {
	for _, a := range alerts {
		if a.ID == id {
			return a, true
		}
	}
	return models.StockAlert{}, false
}

func TestLowStockSeverity(t *testing.T) {
	cases := []struct {
		laptops  int
		severity models.Severity
		raised   bool
	}{
		{0, models.SeverityHigh, true},
		{1, models.SeverityMedium, true},
		{2, models.SeverityMedium, true},
		{3, models.SeverityLow, true},
		{4, models.SeverityLow, true},
		{5, "", false},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.laptops), func(t *testing.T) {
			e := NewAlertEngine(config.DefaultProcurement())
			items := withStock(map[string]int{"Laptop": tc.laptops, "Masaüstü": 3, "Monitör": 10, "Yazıcı": 2})
			e.Evaluate(items, t0)
			a, ok := alertByID(e.Alerts(false), "low-stock-Laptop")
			require.Equal(t, tc.raised, ok)
			if ok {
				assert.Equal(t, tc.severity, a.Severity)
				assert.Equal(t, fmt.Sprintf("Laptop kategorisinde stok azaldı (%d/5)", tc.laptops), a.Message)
				assert.Equal(t, models.AlertLowStock, a.Type)
			}
		})
	}
}

func TestOnlyInStockItemsCount(t *testing.T) {
	e := NewAlertEngine(config.DefaultProcurement())
	items := stock("Yazıcı", 2)
	items[1].CurrentStatus = models.InventoryDefective
	e.Evaluate(items, t0)
	a, ok := alertByID(e.Alerts(false), "low-stock-Yazıcı")
	require.True(t, ok)
	assert.Equal(t, 1, a.CurrentStock)
	assert.Equal(t, models.SeverityLow, a.Severity)
}

func TestWarrantyAlerts(t *testing.T) {
	end := func(days float64) *time.Time {
		v := t0.Add(time.Duration(days * float64(24*time.Hour)))
		return &v
	}
	items := []models.InventoryItem{
		{ID: "a", ItemName: "Laptop A", Category: "Laptop", CurrentStatus: models.InventoryInStock, WarrantyEndDate: end(6.5)},
		{ID: "b", ItemName: "Laptop B", Category: "Laptop", CurrentStatus: models.InventoryInStock, WarrantyEndDate: end(12)},
		{ID: "c", ItemName: "Laptop C", Category: "Laptop", CurrentStatus: models.InventoryInStock, WarrantyEndDate: end(30)},
		{ID: "d", ItemName: "Laptop D", Category: "Laptop", CurrentStatus: models.InventoryInStock, WarrantyEndDate: end(31)},
		{ID: "e", ItemName: "Monitör E", Category: "Monitör", CurrentStatus: models.InventoryInStock, WarrantyEndDate: end(45)},
		{ID: "f", ItemName: "Expired", Category: "Laptop", CurrentStatus: models.InventoryInStock, WarrantyEndDate: end(-1)},
		{ID: "g", ItemName: "Gone", Category: "Laptop", CurrentStatus: models.InventoryDisposed, WarrantyEndDate: end(3)},
		{ID: "h", ItemName: "Kamera", Category: "Kamera", CurrentStatus: models.InventoryInStock, WarrantyEndDate: end(20)},
	}
	e := NewAlertEngine(config.DefaultProcurement())
	e.Evaluate(items, t0)
	alerts := e.Alerts(false)

	want := map[string]models.Severity{
		"warranty-a": models.SeverityHigh,
		"warranty-b": models.SeverityMedium,
		"warranty-c": models.SeverityLow,
		"warranty-e": models.SeverityLow,
		"warranty-h": models.SeverityLow,
	}
	for id, sev := range want {
		a, ok := alertByID(alerts, id)
		if assert.True(t, ok, id) {
			assert.Equal(t, sev, a.Severity, id)
		}
	}
	for _, id := range []string{"warranty-d", "warranty-f", "warranty-g"} {
		_, ok := alertByID(alerts, id)
		assert.False(t, ok, id)
	}
	a, _ := alertByID(alerts, "warranty-a")
	assert.Equal(t, 7, a.DaysUntilExpiry)
	assert.Equal(t, "Laptop A garantisi 7 gün içinde bitiyor", a.Message)
}

func TestAcknowledgeUntilCleared(t *testing.T) {
	e := NewAlertEngine(config.DefaultProcurement())
	healthy := withStock(map[string]int{"Laptop": 5, "Masaüstü": 3, "Monitör": 10, "Yazıcı": 2})
	low := withStock(map[string]int{"Laptop": 1, "Masaüstü": 3, "Monitör": 10, "Yazıcı": 2})

	raised := e.Evaluate(low, t0)
	require.Len(t, raised, 1)
	assert.Equal(t, "low-stock-Laptop", raised[0].ID)

	_, err := e.Acknowledge("low-stock-Laptop")
	require.NoError(t, err)
	assert.Empty(t, e.Alerts(false))
	require.Len(t, e.Alerts(true), 1)
	assert.True(t, e.Alerts(true)[0].Acknowledged)

	// Still low: not raised again and stays hidden.
	assert.Empty(t, e.Evaluate(low, t0.Add(time.Hour)))
	assert.Empty(t, e.Alerts(false))

	// Cleared, then low again: raised anew.
	assert.Empty(t, e.Evaluate(healthy, t0.Add(2*time.Hour)))
	again := e.Evaluate(low, t0.Add(3*time.Hour))
	require.Len(t, again, 1)
	assert.False(t, again[0].Acknowledged)
	assert.Len(t, e.Alerts(false), 1)

	_, err = e.Acknowledge("nope")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAlertsSortedBySeverity(t *testing.T) {
	e := NewAlertEngine(config.DefaultProcurement())
	e.Evaluate(withStock(map[string]int{"Laptop": 4, "Masaüstü": 0, "Monitör": 4, "Yazıcı": 2}), t0)
	alerts := e.Alerts(false)
	require.Len(t, alerts, 3)
	assert.Equal(t, "low-stock-Masaüstü", alerts[0].ID)
	assert.Equal(t, "low-stock-Monitör", alerts[1].ID)
	assert.Equal(t, "low-stock-Laptop", alerts[2].ID)
}

func TestSetThreshold(t *testing.T) {
	e := NewAlertEngine(config.DefaultProcurement())
	require.NoError(t, e.SetThreshold(config.CategoryThreshold{Category: "Tablet", MinStock: 2, WarrantyWarningDays: 10}))
	require.NoError(t, e.SetThreshold(config.CategoryThreshold{Category: "Laptop", MinStock: 1, WarrantyWarningDays: 30}))
	assert.Error(t, e.SetThreshold(config.CategoryThreshold{Category: ""}))

	e.Evaluate(withStock(map[string]int{"Laptop": 1, "Masaüstü": 3, "Monitör": 10, "Yazıcı": 2}), t0)
	alerts := e.Alerts(false)
	require.Len(t, alerts, 1)
	assert.Equal(t, "low-stock-Tablet", alerts[0].ID)
	assert.Len(t, e.Thresholds(), 5)
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 1, DaysUntil(t0.Add(time.Minute), t0))
	assert.Equal(t, 0, DaysUntil(t0, t0))
	assert.Equal(t, 2, DaysUntil(t0.Add(36*time.Hour), t0))
	assert.Equal(t, -1, DaysUntil(t0.Add(-25*time.Hour), t0))
}
