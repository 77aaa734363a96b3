package service

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"hotel-inventory-api/internal/config"
	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
)

const day = 24 * time.Hour

// AlertEngine derives stock alerts from the inventory. Alerts are recomputed on every
// Evaluate; an acknowledged alert stays hidden until its condition clears.
type AlertEngine struct {
	mu           sync.Mutex
	proc         *config.Procurement
	current      map[string]models.StockAlert
	acknowledged map[string]bool
}

func NewAlertEngine(proc *config.Procurement) *AlertEngine {
	if proc == nil {
		proc = config.DefaultProcurement()
	}
	return &AlertEngine{
		proc:         proc,
		current:      map[string]models.StockAlert{},
		acknowledged: map[string]bool{},
	}
}

// Thresholds returns the per-category settings in configuration order.
func (e *AlertEngine) Thresholds() []config.CategoryThreshold {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]config.CategoryThreshold(nil), e.proc.Thresholds...)
}

// SetThreshold adds or replaces the settings of one category.
func (e *AlertEngine) SetThreshold(t config.CategoryThreshold) error {
	if t.Category == "" {
		return errs.Validation("category is required")
	}
	if t.MinStock < 0 || t.WarrantyWarningDays < 0 {
		return errs.Validation("thresholds must not be negative")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.proc.Thresholds {
		if e.proc.Thresholds[i].Category == t.Category {
			e.proc.Thresholds[i] = t
			return nil
		}
	}
	e.proc.Thresholds = append(e.proc.Thresholds, t)
	return nil
}

// Evaluate recomputes the alerts for items and returns the ones that were not raised
// by the previous evaluation.
func (e *AlertEngine) Evaluate(items []models.InventoryItem, now time.Time) []models.StockAlert {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := map[string]models.StockAlert{}
	for _, a := range e.compute(items, now) {
		if prev, ok := e.current[a.ID]; ok {
			a.CreatedAt = prev.CreatedAt
		}
		next[a.ID] = a
	}

	var raised []models.StockAlert
	for id, a := range next {
		if _, ok := e.current[id]; !ok {
			raised = append(raised, a)
		}
	}
	for id := range e.acknowledged {
		if _, ok := next[id]; !ok {
			delete(e.acknowledged, id)
		}
	}
	e.current = next
	sortAlerts(raised)
	return raised
}

func (e *AlertEngine) compute(items []models.InventoryItem, now time.Time) []models.StockAlert {
	inStock := map[string]int{}
	for _, it := range items {
		if it.CurrentStatus == models.InventoryInStock {
			inStock[it.Category]++
		}
	}

	var out []models.StockAlert
	for _, t := range e.proc.Thresholds {
		count := inStock[t.Category]
		if count >= t.MinStock {
			continue
		}
		out = append(out, models.StockAlert{
			ID:           "low-stock-" + t.Category,
			Type:         models.AlertLowStock,
			Category:     t.Category,
			Message:      fmt.Sprintf("%s kategorisinde stok azaldı (%d/%d)", t.Category, count, t.MinStock),
			Severity:     lowStockSeverity(count, t.MinStock),
			CurrentStock: count,
			MinStock:     t.MinStock,
			CreatedAt:    now,
		})
	}

	for _, it := range items {
		if it.WarrantyEndDate == nil || it.CurrentStatus == models.InventoryDisposed {
			continue
		}
		days := DaysUntil(*it.WarrantyEndDate, now)
		t, _ := e.proc.Threshold(it.Category)
		if days <= 0 || days > t.WarrantyWarningDays {
			continue
		}
		out = append(out, models.StockAlert{
			ID:              "warranty-" + it.ID,
			Type:            models.AlertWarrantyExpiring,
			Category:        it.Category,
			ItemID:          it.ID,
			ItemName:        it.ItemName,
			Message:         fmt.Sprintf("%s garantisi %d gün içinde bitiyor", it.ItemName, days),
			Severity:        warrantySeverity(days),
			DaysUntilExpiry: days,
			CreatedAt:       now,
		})
	}
	return out
}

// DaysUntil counts whole days from now to end, rounding partial days up.
func DaysUntil(end, now time.Time) int {
	return int(math.Ceil(float64(end.Sub(now)) / float64(day)))
}

func lowStockSeverity(count, minStock int) models.Severity {
	switch {
	case count == 0:
		return models.SeverityHigh
	case float64(count) < float64(minStock)/2:
		return models.SeverityMedium
	}
	return models.SeverityLow
}

func warrantySeverity(days int) models.Severity {
	switch {
	case days <= 7:
		return models.SeverityHigh
	case days <= 15:
		return models.SeverityMedium
	}
	return models.SeverityLow
}

var severityRank = map[models.Severity]int{
	models.SeverityHigh:   0,
	models.SeverityMedium: 1,
	models.SeverityLow:    2,
}

func sortAlerts(alerts []models.StockAlert) {
	sort.Slice(alerts, func(i, j int) bool {
		ri, rj := severityRank[alerts[i].Severity], severityRank[alerts[j].Severity]
		if ri != rj {
			return ri < rj
		}
		return alerts[i].ID < alerts[j].ID
	})
}

// Alerts lists the current alerts, most severe first. Acknowledged alerts are included
// only when all is set.
func (e *AlertEngine) Alerts(all bool) []models.StockAlert {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.StockAlert, 0, len(e.current))
	for id, a := range e.current {
		a.Acknowledged = e.acknowledged[id]
		if a.Acknowledged && !all {
			continue
		}
		out = append(out, a)
	}
	sortAlerts(out)
	return out
}

func (e *AlertEngine) Acknowledge(id string) (models.StockAlert, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.current[id]
	if !ok {
		return models.StockAlert{}, errs.NotFound("alert %s", id)
	}
	e.acknowledged[id] = true
	a.Acknowledged = true
	return a, nil
}
