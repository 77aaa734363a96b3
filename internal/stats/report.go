package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/state"
)

const (
	// TrendMonths is how many calendar months the trend series covers, oldest first.
	TrendMonths = 6
	// WarrantyHorizonDays splits expiring warranties from valid ones.
	WarrantyHorizonDays = 30
	DefaultRange        = "30"
)

// RangeOptions lists the accepted report ranges.
var RangeOptions = []string{"30", "90", "365", "all"}

// Range limits a report to items created in the last Days days. Days is 0 for "all".
type Range struct {
	Label string
	Days  int
}

func ParseRange(s string) (Range, error) {
	switch s {
	case "":
		s = DefaultRange
	case "all":
		return Range{Label: s}, nil
	}
	for _, opt := range RangeOptions {
		if s == opt {
			days, _ := strconv.Atoi(s)
			return Range{Label: s, Days: days}, nil
		}
	}
	return Range{}, errs.Validation("range must be one of 30, 90, 365 or all, got %q", s)
}

// Since returns the first instant inside the range, or the zero time for "all".
func (r Range) Since(now time.Time) time.Time {
	if r.Days == 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -r.Days)
}

type CategoryShare struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Value    float64 `json:"value"`
}

type StatusShare struct {
	Status     models.InventoryStatus `json:"status"`
	Count      int                    `json:"count"`
	Percentage float64                `json:"percentage"`
}

type DepartmentShare struct {
	Department string  `json:"department"`
	Count      int     `json:"count"`
	Value      float64 `json:"value"`
}

type MonthTrend struct {
	Month       string `json:"month"`
	Added       int    `json:"added"`
	Disposed    int    `json:"disposed"`
	Maintenance int    `json:"maintenance"`
}

type CostAnalysis struct {
	TotalValue     float64            `json:"totalValue"`
	AverageValue   float64            `json:"averageValue"`
	CategoryValues map[string]float64 `json:"categoryValues"`
}

type WarrantyAnalysis struct {
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
	Valid    int `json:"valid"`
	None     int `json:"none"`
}

type MaintenanceSummary struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// Report is the inventory analysis over one range.
type Report struct {
	Range                  string             `json:"dateRange"`
	TotalItems             int                `json:"totalItems"`
	CategoryDistribution   []CategoryShare    `json:"categoryDistribution"`
	StatusDistribution     []StatusShare      `json:"statusDistribution"`
	DepartmentDistribution []DepartmentShare  `json:"departmentDistribution"`
	MonthlyTrends          []MonthTrend       `json:"monthlyTrends"`
	CostAnalysis           CostAnalysis       `json:"costAnalysis"`
	WarrantyAnalysis       WarrantyAnalysis   `json:"warrantyAnalysis"`
	Maintenance            MaintenanceSummary `json:"maintenance"`
}

var monthNames = [...]string{"Oca", "Şub", "Mar", "Nis", "May", "Haz", "Tem", "Ağu", "Eyl", "Eki", "Kas", "Ara"}

func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// BuildReport analyses the items created inside rng. Monthly trends always cover the
// last TrendMonths calendar months regardless of rng.
func BuildReport(snap state.InventorySnapshot, now time.Time, rng Range) Report {
	since := rng.Since(now)
	inRange := func(t time.Time) bool { return !t.Before(since) }

	r := Report{
		Range:                  rng.Label,
		CategoryDistribution:   []CategoryShare{},
		StatusDistribution:     []StatusShare{},
		DepartmentDistribution: []DepartmentShare{},
		CostAnalysis:           CostAnalysis{CategoryValues: map[string]float64{}},
	}

	categories := map[string]int{}
	statuses := map[models.InventoryStatus]int{}
	departments := map[string]int{}
	for _, it := range snap.Items {
		if !inRange(it.CreatedAt) {
			continue
		}
		r.TotalItems++
		value := 0.0
		if it.PurchasePrice != nil {
			value = *it.PurchasePrice
		}

		i, ok := categories[it.Category]
		if !ok {
			i = len(r.CategoryDistribution)
			categories[it.Category] = i
			r.CategoryDistribution = append(r.CategoryDistribution, CategoryShare{Category: it.Category})
		}
		r.CategoryDistribution[i].Count++
		r.CategoryDistribution[i].Value += value

		j, ok := statuses[it.CurrentStatus]
		if !ok {
			j = len(r.StatusDistribution)
			statuses[it.CurrentStatus] = j
			r.StatusDistribution = append(r.StatusDistribution, StatusShare{Status: it.CurrentStatus})
		}
		r.StatusDistribution[j].Count++

		k, ok := departments[it.LocationDepartment]
		if !ok {
			k = len(r.DepartmentDistribution)
			departments[it.LocationDepartment] = k
			r.DepartmentDistribution = append(r.DepartmentDistribution, DepartmentShare{Department: it.LocationDepartment})
		}
		r.DepartmentDistribution[k].Count++
		r.DepartmentDistribution[k].Value += value

		r.CostAnalysis.TotalValue += value
		r.CostAnalysis.CategoryValues[it.Category] += value

		switch {
		case it.WarrantyEndDate == nil:
			r.WarrantyAnalysis.None++
		default:
			days := int(math.Ceil(it.WarrantyEndDate.Sub(now).Hours() / 24))
			switch {
			case days < 0:
				r.WarrantyAnalysis.Expired++
			case days <= WarrantyHorizonDays:
				r.WarrantyAnalysis.Expiring++
			default:
				r.WarrantyAnalysis.Valid++
			}
		}
	}
	for i := range r.StatusDistribution {
		r.StatusDistribution[i].Percentage = float64(r.StatusDistribution[i].Count) / float64(r.TotalItems) * 100
	}
	if r.TotalItems > 0 {
		r.CostAnalysis.AverageValue = r.CostAnalysis.TotalValue / float64(r.TotalItems)
	}

	for _, m := range snap.Maintenance {
		if !inRange(m.MaintenanceDate) {
			continue
		}
		r.Maintenance.Total++
		switch m.Status {
		case models.MaintenanceInProgress:
			r.Maintenance.Active++
		case models.MaintenanceCompleted:
			r.Maintenance.Completed++
		}
	}

	r.MonthlyTrends = trends(snap, now)
	return r
}

func trends(snap state.InventorySnapshot, now time.Time) []MonthTrend {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthTrend, 0, TrendMonths)
	for i := TrendMonths - 1; i >= 0; i-- {
		start := first.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)
		within := func(t time.Time) bool { return !t.Before(start) && t.Before(end) }

		m := MonthTrend{Month: monthLabel(start)}
		for _, it := range snap.Items {
			if within(it.CreatedAt) {
				m.Added++
				if it.CurrentStatus == models.InventoryDisposed {
					m.Disposed++
				}
			}
		}
		for _, rec := range snap.Maintenance {
			if within(rec.MaintenanceDate) {
				m.Maintenance++
			}
		}
		out = append(out, m)
	}
	return out
}

type reportSummary struct {
	TotalItems   int     `json:"totalItems"`
	TotalValue   float64 `json:"totalValue"`
	AverageValue float64 `json:"averageValue"`
}

// ReportJSON renders the downloadable analysis document.
func ReportJSON(rep Report, now time.Time) ([]byte, error) {
	doc := struct {
		GeneratedAt time.Time     `json:"generatedAt"`
		Summary     reportSummary `json:"summary"`
		Report
	}{
		GeneratedAt: now,
		Summary: reportSummary{
			TotalItems:   rep.TotalItems,
			TotalValue:   rep.CostAnalysis.TotalValue,
			AverageValue: rep.CostAnalysis.AverageValue,
		},
		Report: rep,
	}
	return json.MarshalIndent(doc, "", "  ")
}
