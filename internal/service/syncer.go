package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/realtime"
)

// Syncer merges change notifications into the shared state one row at a time.
// It implements realtime.Handler.
type Syncer struct {
	coord  *Coordinator
	inv    *Inventory
	log    *zap.Logger
	nudges []func()
}

func NewSyncer(coord *Coordinator, inv *Inventory, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{coord: coord, inv: inv, log: log}
}

// OnInventoryChange registers fn to run after an inventory row is merged.
func (s *Syncer) OnInventoryChange(fn func()) {
	s.nudges = append(s.nudges, fn)
}

// merge re-reads one row and stores it, or drops it when it was deleted or is gone.
func merge[T any](ctx context.Context, ch realtime.Change, get func(context.Context, string) (T, error), put func(T), remove func(string) bool) error {
	if ch.Op == realtime.OpDelete {
		remove(ch.ID)
		return nil
	}
	row, err := get(ctx, ch.ID)
	if errors.Is(err, errs.ErrNotFound) {
		remove(ch.ID)
		return nil
	}
	if err != nil {
		return err
	}
	put(row)
	return nil
}

func (s *Syncer) HandleChange(ctx context.Context, ch realtime.Change) error {
	st := s.coord.state
	var err error
	switch ch.Table {
	case "devices":
		err = merge(ctx, ch, s.coord.devices.Get, st.PutDevice, st.RemoveDevice)
	case "personnel":
		err = merge(ctx, ch, s.coord.personnel.Get, st.PutPersonnel, st.RemovePersonnel)
	case "assignments":
		err = merge(ctx, ch, s.coord.assignments.Get, st.PutAssignment, st.RemoveAssignment)
	case "inventory_items":
		err = merge(ctx, ch, s.inv.items.Get, st.PutInventoryItem, func(id string) bool {
			st.RemoveItemMaintenance(id)
			return st.RemoveInventoryItem(id)
		})
		s.nudge(err)
	case "inventory_maintenance":
		err = merge(ctx, ch, s.inv.maintenance.Get, st.PutMaintenance, st.RemoveMaintenance)
	case "inventory_audit":
		err = merge(ctx, ch, s.inv.audit.Get, st.PutAudit, st.RemoveAudit)
	default:
		s.log.Debug("ignoring change for untracked table", zap.String("table", ch.Table))
		return nil
	}
	if err != nil {
		return errs.Remote("sync."+ch.Table, err)
	}
	return nil
}

func (s *Syncer) nudge(err error) {
	if err != nil {
		return
	}
	for _, fn := range s.nudges {
		fn()
	}
}

// Resync reloads both the assignment and the inventory collections.
func (s *Syncer) Resync(ctx context.Context) error {
	if err := s.coord.Refresh(ctx); err != nil {
		return err
	}
	if err := s.inv.Refresh(ctx); err != nil {
		return err
	}
	for _, fn := range s.nudges {
		fn()
	}
	return nil
}
