package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryThreshold drives the low-stock and warranty alerts for one category.
type CategoryThreshold struct {
	Category            string `yaml:"category" json:"category"`
	MinStock            int    `yaml:"min_stock" json:"minStock"`
	WarrantyWarningDays int    `yaml:"warranty_warning_days" json:"warrantyWarningDays"`
}

// AutoOrderRule reorders a category from a supplier once stock drops to MinThreshold.
type AutoOrderRule struct {
	ID            string `yaml:"id"`
	Category      string `yaml:"category"`
	Supplier      string `yaml:"supplier"`
	MinThreshold  int    `yaml:"min_threshold"`
	OrderQuantity int    `yaml:"order_quantity"`
	Enabled       bool   `yaml:"enabled"`
}

// Procurement holds the inventory thresholds and reorder policy.
type Procurement struct {
	DefaultWarrantyWarningDays int                 `yaml:"default_warranty_warning_days"`
	UnitCost                   float64             `yaml:"unit_cost"`
	Thresholds                 []CategoryThreshold `yaml:"thresholds"`
	AutoOrderRules             []AutoOrderRule     `yaml:"auto_order_rules"`
	Categories                 []string            `yaml:"categories"`
	Departments                []string            `yaml:"departments"`
}

func DefaultProcurement() *Procurement {
	return &Procurement{
		DefaultWarrantyWarningDays: 30,
		UnitCost:                   1500,
		Thresholds: []CategoryThreshold{
			{Category: "Laptop", MinStock: 5, WarrantyWarningDays: 30},
			{Category: "Masaüstü", MinStock: 3, WarrantyWarningDays: 30},
			{Category: "Monitör", MinStock: 10, WarrantyWarningDays: 60},
			{Category: "Yazıcı", MinStock: 2, WarrantyWarningDays: 90},
		},
		AutoOrderRules: []AutoOrderRule{
			{ID: "1", Category: "Laptop", Supplier: "TechnoSA", MinThreshold: 5, OrderQuantity: 10, Enabled: true},
			{ID: "2", Category: "Monitör", Supplier: "Vatan Bilgisayar", MinThreshold: 8, OrderQuantity: 15, Enabled: true},
		},
		Categories: []string{
			"Laptop", "Masaüstü", "Monitör", "Yazıcı", "Telefon",
			"Tablet", "Kamera", "Ses Ekipmanı", "Ağ Ekipmanı", "Diğer",
		},
		Departments: []string{
			"CRM", "Animasyon", "I.T", "Ses/Görüntü", "Misafir ilişkileri", "Mutfak",
			"Ön Büro", "Temizlik", "Bakım", "Güvenlik", "Yönetim", "SPA",
			"TEKNİK SERVİS", "SATIN ALMA", "H.K", "İK", "F&B",
		},
	}
}

// LoadProcurement reads path over the defaults. An empty path yields the defaults.
func LoadProcurement(path string) (*Procurement, error) {
	p := DefaultProcurement()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read procurement config: %w", err)
	}
	return ParseProcurement(data)
}

func ParseProcurement(data []byte) (*Procurement, error) {
	p := DefaultProcurement()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse procurement config: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Procurement) Validate() error {
	if p.UnitCost < 0 {
		return fmt.Errorf("unit_cost must not be negative")
	}
	if p.DefaultWarrantyWarningDays <= 0 {
		return fmt.Errorf("default_warranty_warning_days must be positive")
	}
	seen := map[string]bool{}
	for _, t := range p.Thresholds {
		if t.Category == "" {
			return fmt.Errorf("threshold without category")
		}
		if seen[t.Category] {
			return fmt.Errorf("duplicate threshold for %q", t.Category)
		}
		seen[t.Category] = true
		if t.MinStock < 0 || t.WarrantyWarningDays < 0 {
			return fmt.Errorf("threshold for %q must not be negative", t.Category)
		}
	}
	ids := map[string]bool{}
	for _, r := range p.AutoOrderRules {
		if r.ID == "" || r.Category == "" || r.Supplier == "" {
			return fmt.Errorf("auto order rule needs id, category and supplier")
		}
		if ids[r.ID] {
			return fmt.Errorf("duplicate auto order rule id %q", r.ID)
		}
		ids[r.ID] = true
		if r.OrderQuantity <= 0 {
			return fmt.Errorf("auto order rule %q: order_quantity must be positive", r.ID)
		}
	}
	return nil
}

// Threshold returns the settings for category, falling back to the default warning window.
func (p *Procurement) Threshold(category string) (CategoryThreshold, bool) {
	for _, t := range p.Thresholds {
		if t.Category == category {
			if t.WarrantyWarningDays == 0 {
				t.WarrantyWarningDays = p.DefaultWarrantyWarningDays
			}
			return t, true
		}
	}
	return CategoryThreshold{Category: category, WarrantyWarningDays: p.DefaultWarrantyWarningDays}, false
}
