package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/repository"
	"hotel-inventory-api/internal/state"
)

// Audit reasons recorded for item changes.
const (
	ReasonCreated = "Yeni envanter öğesi eklendi"
	ReasonUpdated = "Envanter öğesi güncellendi"
	ReasonDeleted = "Envanter öğesi silindi"

	defectivePrefix = "Arızalı olarak işaretlendi: "
)

// Inventory manages inventory items, their maintenance history and the audit trail.
type Inventory struct {
	items       repository.InventoryRepository
	maintenance repository.MaintenanceRepository
	audit       repository.AuditRepository
	state       *state.Store
	log         *zap.Logger
	now         func() time.Time
	// onChange is called after every successful item write.
	onChange func()
}

func NewInventory(
	items repository.InventoryRepository,
	maintenance repository.MaintenanceRepository,
	audit repository.AuditRepository,
	st *state.Store,
	log *zap.Logger,
) *Inventory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inventory{
		items:       items,
		maintenance: maintenance,
		audit:       audit,
		state:       st,
		log:         log,
		now:         time.Now,
		onChange:    func() {},
	}
}

// OnChange registers a callback run after item writes. The watcher uses it to
// re-evaluate alerts.
func (s *Inventory) OnChange(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	s.onChange = fn
}

func (s *Inventory) remote(op string, err error) error {
	if errs.IsDomain(err) {
		return err
	}
	s.log.Error("store call failed", zap.String("op", op), zap.Error(err))
	return errs.Remote(op, err)
}

// Refresh reloads items, maintenance records and the audit trail.
func (s *Inventory) Refresh(ctx context.Context) error {
	var (
		items []models.InventoryItem
		maint []models.MaintenanceRecord
		audit []models.AuditRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = s.items.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		maint, err = s.maintenance.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		audit, err = s.audit.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return s.remote("inventory.refresh", err)
	}
	s.state.LoadInventory(items)
	s.state.LoadMaintenance(maint)
	s.state.LoadAudit(audit)
	return nil
}

func (s *Inventory) Items() []models.InventoryItem { return s.state.InventoryItems() }

func (s *Inventory) Item(id string) (models.InventoryItem, error) {
	it, ok := s.state.InventoryItem(id)
	if !ok {
		return models.InventoryItem{}, errs.NotFound("inventory item %s", id)
	}
	return it, nil
}

// History returns the maintenance records and audit entries of one item, newest first.
func (s *Inventory) History(id string) ([]models.MaintenanceRecord, []models.AuditRecord, error) {
	if _, ok := s.state.InventoryItem(id); !ok {
		return nil, nil, errs.NotFound("inventory item %s", id)
	}
	var trail []models.AuditRecord
	for _, a := range s.state.Audit() {
		if a.InventoryItemID == id {
			trail = append(trail, a)
		}
	}
	return s.state.MaintenanceFor(id), trail, nil
}

func (s *Inventory) AddItem(ctx context.Context, in models.InventoryItemInput) (models.InventoryItem, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return models.InventoryItem{}, err
	}
	it, err := s.items.Create(ctx, in)
	if err != nil {
		return models.InventoryItem{}, s.remote("inventory.create", err)
	}
	s.state.PutInventoryItem(it)
	s.record(ctx, models.AuditCreate, it.ID, nil, itemValues(it), ReasonCreated)
	s.onChange()
	return it, nil
}

func (s *Inventory) UpdateItem(ctx context.Context, id string, patch models.InventoryItemPatch) (models.InventoryItem, error) {
	return s.updateItem(ctx, id, patch, ReasonUpdated)
}

func (s *Inventory) updateItem(ctx context.Context, id string, patch models.InventoryItemPatch, reason string) (models.InventoryItem, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return models.InventoryItem{}, err
	}
	if patch.Empty() {
		return models.InventoryItem{}, errs.Validation("no fields to update")
	}
	old, ok := s.state.InventoryItem(id)
	if !ok {
		return models.InventoryItem{}, errs.NotFound("inventory item %s", id)
	}
	it, err := s.items.Update(ctx, id, patch)
	if err != nil {
		return models.InventoryItem{}, s.remote("inventory.update", err)
	}
	s.state.PutInventoryItem(it)

	changes := patch.Changes()
	before := itemValues(old)
	oldValues := models.JSONB{}
	for k := range changes {
		oldValues[k] = before[k]
	}
	s.record(ctx, models.AuditUpdate, id, oldValues, changes, reason)
	s.onChange()
	return it, nil
}

func (s *Inventory) DeleteItem(ctx context.Context, id string, confirmer Confirmer) error {
	old, ok := s.state.InventoryItem(id)
	if !ok {
		return errs.NotFound("inventory item %s", id)
	}
	if err := confirm(ctx, confirmer, PromptDeleteItem); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return s.remote("inventory.delete", err)
	}
	s.state.RemoveInventoryItem(id)
	s.state.RemoveItemMaintenance(id)
	s.record(ctx, models.AuditDelete, id, itemValues(old), nil, ReasonDeleted)
	s.onChange()
	return nil
}

// record appends an audit entry. A failed write is logged and does not fail the caller.
func (s *Inventory) record(ctx context.Context, action models.AuditAction, itemID string, oldValues, newValues models.JSONB, reason string) {
	rec, err := s.audit.Create(ctx, models.AuditRecord{
		InventoryItemID: itemID,
		Action:          action,
		OldValues:       oldValues,
		NewValues:       newValues,
		ChangedBy:       ActorFrom(ctx),
		ChangeReason:    reason,
	})
	if err != nil {
		s.log.Warn("audit write failed",
			zap.String("item_id", itemID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return
	}
	s.state.PutAudit(rec)
}

// itemValues flattens an item to its JSON field map for the audit trail.
func itemValues(it models.InventoryItem) models.JSONB {
	raw, err := json.Marshal(it)
	if err != nil {
		return nil
	}
	var out models.JSONB
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func (s *Inventory) Maintenance() []models.MaintenanceRecord { return s.state.Maintenance() }

// AddMaintenance records a maintenance entry. Status defaults to scheduled and the date
// to now.
func (s *Inventory) AddMaintenance(ctx context.Context, in models.MaintenanceInput) (models.MaintenanceRecord, error) {
	if in.Status == "" {
		in.Status = models.MaintenanceScheduled
	}
	if in.MaintenanceDate.IsZero() {
		in.MaintenanceDate = s.now()
	}
	if err := in.Validate(); err != nil {
		return models.MaintenanceRecord{}, err
	}
	if _, ok := s.state.InventoryItem(in.InventoryItemID); !ok {
		return models.MaintenanceRecord{}, errs.NotFound("inventory item %s", in.InventoryItemID)
	}
	m, err := s.maintenance.Create(ctx, in)
	if err != nil {
		return models.MaintenanceRecord{}, s.remote("maintenance.create", err)
	}
	s.state.PutMaintenance(m)
	return m, nil
}

func (s *Inventory) UpdateMaintenance(ctx context.Context, id string, patch models.MaintenancePatch) (models.MaintenanceRecord, error) {
	if err := patch.Validate(); err != nil {
		return models.MaintenanceRecord{}, err
	}
	if patch.Empty() {
		return models.MaintenanceRecord{}, errs.Validation("no fields to update")
	}
	if _, ok := s.state.MaintenanceRecord(id); !ok {
		return models.MaintenanceRecord{}, errs.NotFound("maintenance record %s", id)
	}
	m, err := s.maintenance.Update(ctx, id, patch)
	if err != nil {
		return models.MaintenanceRecord{}, s.remote("maintenance.update", err)
	}
	s.state.PutMaintenance(m)
	return m, nil
}

// MarkAsDefective flags an item as defective and schedules a repair for it.
func (s *Inventory) MarkAsDefective(ctx context.Context, id, reason string) (models.InventoryItem, models.MaintenanceRecord, error) {
	it, ok := s.state.InventoryItem(id)
	if !ok {
		return models.InventoryItem{}, models.MaintenanceRecord{}, errs.NotFound("inventory item %s", id)
	}
	if it.CurrentStatus == models.InventoryDisposed {
		return models.InventoryItem{}, models.MaintenanceRecord{}, errs.Invalid("item %s is disposed", it.SerialNumber)
	}
	status := models.InventoryDefective
	it, err := s.updateItem(ctx, id, models.InventoryItemPatch{CurrentStatus: &status}, ReasonUpdated)
	if err != nil {
		return models.InventoryItem{}, models.MaintenanceRecord{}, err
	}
	m, err := s.AddMaintenance(ctx, models.MaintenanceInput{
		InventoryItemID: id,
		MaintenanceDate: s.now(),
		MaintenanceType: models.MaintenanceRepair,
		Description:     defectivePrefix + reason,
		Status:          models.MaintenanceScheduled,
	})
	if err != nil {
		return it, models.MaintenanceRecord{}, err
	}
	return it, m, nil
}

// MarkAsRepaired puts an item back in stock and completes its open repair: the first
// in-progress record, otherwise the first scheduled one. The record is nil when the
// item had no open maintenance.
func (s *Inventory) MarkAsRepaired(ctx context.Context, id string) (models.InventoryItem, *models.MaintenanceRecord, error) {
	if _, ok := s.state.InventoryItem(id); !ok {
		return models.InventoryItem{}, nil, errs.NotFound("inventory item %s", id)
	}
	status := models.InventoryInStock
	it, err := s.updateItem(ctx, id, models.InventoryItemPatch{CurrentStatus: &status}, ReasonUpdated)
	if err != nil {
		return models.InventoryItem{}, nil, err
	}

	open := openRecord(s.state.MaintenanceFor(id))
	if open == nil {
		return it, nil, nil
	}
	done := models.MaintenanceCompleted
	m, err := s.UpdateMaintenance(ctx, open.ID, models.MaintenancePatch{Status: &done})
	if err != nil {
		return it, nil, err
	}
	return it, &m, nil
}

func openRecord(records []models.MaintenanceRecord) *models.MaintenanceRecord {
	for _, want := range []models.MaintenanceStatus{models.MaintenanceInProgress, models.MaintenanceScheduled} {
		for i := range records {
			if records[i].Status == want {
				return &records[i]
			}
		}
	}
	return nil
}
