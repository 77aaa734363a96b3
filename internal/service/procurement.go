package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hotel-inventory-api/internal/config"
	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/repository"
)

// Procurement runs the auto-order rules and tracks the purchase orders they raise.
// Rules and orders live in memory; received orders are booked against the supplier.
type Procurement struct {
	mu        sync.Mutex
	rules     []models.AutoOrderRule
	orders    []models.PurchaseOrder
	unitCost  float64
	suppliers repository.SupplierRepository
	log       *zap.Logger
	now       func() time.Time
}

func NewProcurement(proc *config.Procurement, suppliers repository.SupplierRepository, log *zap.Logger) *Procurement {
	if proc == nil {
		proc = config.DefaultProcurement()
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &Procurement{
		unitCost:  proc.UnitCost,
		suppliers: suppliers,
		log:       log,
		now:       time.Now,
	}
	for _, r := range proc.AutoOrderRules {
		p.rules = append(p.rules, models.AutoOrderRule{
			ID:            r.ID,
			Category:      r.Category,
			Supplier:      r.Supplier,
			MinThreshold:  r.MinThreshold,
			OrderQuantity: r.OrderQuantity,
			Enabled:       r.Enabled,
		})
	}
	return p
}

func (p *Procurement) Rules() []models.AutoOrderRule {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.AutoOrderRule(nil), p.rules...)
}

// AddRule stores a new enabled rule under a fresh id.
func (p *Procurement) AddRule(r models.AutoOrderRule) (models.AutoOrderRule, error) {
	r.Category = strings.TrimSpace(r.Category)
	r.Supplier = strings.TrimSpace(r.Supplier)
	if err := r.Validate(); err != nil {
		return models.AutoOrderRule{}, err
	}
	r.ID = uuid.NewString()
	r.Enabled = true
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rules = append(p.rules, r)
	return r, nil
}

// ToggleRule flips a rule between enabled and disabled.
func (p *Procurement) ToggleRule(id string) (models.AutoOrderRule, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.rules {
		if p.rules[i].ID == id {
			p.rules[i].Enabled = !p.rules[i].Enabled
			return p.rules[i], nil
		}
	}
	return models.AutoOrderRule{}, errs.NotFound("auto order rule %s", id)
}

func (p *Procurement) DeleteRule(ctx context.Context, id string, confirmer Confirmer) error {
	if !p.hasRule(id) {
		return errs.NotFound("auto order rule %s", id)
	}
	if err := confirm(ctx, confirmer, PromptDeleteRule); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.rules {
		if p.rules[i].ID == id {
			p.rules = append(p.rules[:i], p.rules[i+1:]...)
			return nil
		}
	}
	return errs.NotFound("auto order rule %s", id)
}

func (p *Procurement) hasRule(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.rules {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Check raises a pending order for every enabled rule whose category has dropped to its
// threshold and that has no pending order yet. It returns the orders it created.
func (p *Procurement) Check(items []models.InventoryItem) []models.PurchaseOrder {
	inStock := map[string]int{}
	for _, it := range items {
		if it.CurrentStatus == models.InventoryInStock {
			inStock[it.Category]++
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	var created []models.PurchaseOrder
	for _, r := range p.rules {
		count := inStock[r.Category]
		if !r.Enabled || count > r.MinThreshold || p.pendingFor(r.ID) {
			continue
		}
		now := p.now()
		o := models.PurchaseOrder{
			ID:            uuid.NewString(),
			RuleID:        r.ID,
			Category:      r.Category,
			Supplier:      r.Supplier,
			Quantity:      r.OrderQuantity,
			EstimatedCost: float64(r.OrderQuantity) * p.unitCost,
			Status:        models.OrderPending,
			Notes:         fmt.Sprintf("Otomatik sipariş - Mevcut stok: %d, Minimum: %d", count, r.MinThreshold),
			OrderDate:     now,
			UpdatedAt:     now,
		}
		p.orders = append(p.orders, o)
		created = append(created, o)
	}
	return created
}

func (p *Procurement) pendingFor(ruleID string) bool {
	for _, o := range p.orders {
		if o.RuleID == ruleID && o.Status == models.OrderPending {
			return true
		}
	}
	return false
}

// Orders lists orders newest first.
func (p *Procurement) Orders() []models.PurchaseOrder {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := append([]models.PurchaseOrder(nil), p.orders...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out
}

func (p *Procurement) Approve(id string) (models.PurchaseOrder, error) {
	return p.move(id, models.OrderPending, models.OrderApproved)
}

func (p *Procurement) MarkOrdered(id string) (models.PurchaseOrder, error) {
	return p.move(id, models.OrderApproved, models.OrderOrdered)
}

// Receive closes an order and books it against the supplier's totals. An unknown
// supplier is logged and does not block the receipt.
func (p *Procurement) Receive(ctx context.Context, id string) (models.PurchaseOrder, error) {
	o, err := p.move(id, models.OrderOrdered, models.OrderReceived)
	if err != nil {
		return models.PurchaseOrder{}, err
	}
	if _, err := p.suppliers.RecordOrder(ctx, o.Supplier, o.EstimatedCost, o.UpdatedAt); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			p.log.Warn("received order for unknown supplier", zap.String("order_id", id), zap.String("supplier", o.Supplier))
		} else {
			p.log.Error("record supplier order failed", zap.String("order_id", id), zap.Error(err))
			return o, errs.Remote("supplier.record_order", err)
		}
	}
	return o, nil
}

// Advance moves an order one step along pending, approved, ordered, received.
func (p *Procurement) Advance(ctx context.Context, id string) (models.PurchaseOrder, error) {
	o, err := p.order(id)
	if err != nil {
		return models.PurchaseOrder{}, err
	}
	switch o.Status {
	case models.OrderPending:
		return p.Approve(id)
	case models.OrderApproved:
		return p.MarkOrdered(id)
	case models.OrderOrdered:
		return p.Receive(ctx, id)
	}
	return models.PurchaseOrder{}, errs.Invalid("order %s is already %s", id, o.Status)
}

// Reject drops a pending order.
func (p *Procurement) Reject(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, o := range p.orders {
		if o.ID != id {
			continue
		}
		if o.Status != models.OrderPending {
			return errs.Invalid("order %s is %s, only pending orders can be rejected", id, o.Status)
		}
		p.orders = append(p.orders[:i], p.orders[i+1:]...)
		return nil
	}
	return errs.NotFound("order %s", id)
}

func (p *Procurement) order(id string) (models.PurchaseOrder, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, o := range p.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.PurchaseOrder{}, errs.NotFound("order %s", id)
}

func (p *Procurement) move(id string, from, to models.OrderStatus) (models.PurchaseOrder, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.orders {
		o := &p.orders[i]
		if o.ID != id {
			continue
		}
		if o.Status != from {
			return models.PurchaseOrder{}, errs.Invalid("order %s is %s, expected %s", id, o.Status, from)
		}
		o.Status = to
		o.UpdatedAt = p.now()
		return *o, nil
	}
	return models.PurchaseOrder{}, errs.NotFound("order %s", id)
}
