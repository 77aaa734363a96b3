package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/repository/memory"
	"hotel-inventory-api/internal/state"
)

func newInventory(t *testing.T) (*Inventory, *memory.Store, *state.Store) {
	t.Helper()
	db := memory.New()
	clock := t0
	db.SetClock(func() time.Time { clock = clock.Add(time.Minute); return clock })
	st := state.New()
	inv := NewInventory(db.Inventory(), db.Maintenance(), db.Audit(), st, zap.NewNop())
	inv.now = func() time.Time { return t0 }
	return inv, db, st
}

func addItem(t *testing.T, inv *Inventory, ctx context.Context, serial string) models.InventoryItem {
	t.Helper()
	it, err := inv.AddItem(ctx, models.InventoryItemInput{ItemName: "Lenovo T14", SerialNumber: serial, Category: "Laptop"})
	require.NoError(t, err)
	return it
}

func TestAddItemWritesAudit(t *testing.T) {
	inv, _, st := newInventory(t)
	ctx := WithActor(context.Background(), "Mehmet Öz")

	nudged := 0
	inv.OnChange(func() { nudged++ })
	it := addItem(t, inv, ctx, "LN1")
	assert.Equal(t, models.InventoryInStock, it.CurrentStatus)
	assert.Equal(t, 1, nudged)

	trail := st.Audit()
	require.Len(t, trail, 1)
	assert.Equal(t, models.AuditCreate, trail[0].Action)
	assert.Equal(t, "Mehmet Öz", trail[0].ChangedBy)
	assert.Equal(t, ReasonCreated, trail[0].ChangeReason)
	assert.Equal(t, "LN1", trail[0].NewValues["serialNumber"])
	assert.Nil(t, trail[0].OldValues)
}

func TestUpdateItemRecordsChangedFields(t *testing.T) {
	inv, _, st := newInventory(t)
	ctx := context.Background()
	it := addItem(t, inv, ctx, "LN1")

	dept := "Ön Büro"
	_, err := inv.UpdateItem(ctx, it.ID, models.InventoryItemPatch{LocationDepartment: &dept})
	require.NoError(t, err)

	_, trail, err := inv.History(it.ID)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	upd := trail[0]
	assert.Equal(t, models.AuditUpdate, upd.Action)
	assert.Equal(t, DefaultActor, upd.ChangedBy)
	assert.Equal(t, ReasonUpdated, upd.ChangeReason)
	assert.Equal(t, models.JSONB{"locationDepartment": "Ön Büro"}, upd.NewValues)
	assert.Equal(t, models.JSONB{"locationDepartment": ""}, upd.OldValues)

	got, _ := st.InventoryItem(it.ID)
	assert.Equal(t, "Ön Büro", got.LocationDepartment)
}

func TestAuditFailureDoesNotFailWrite(t *testing.T) {
	inv, db, st := newInventory(t)
	db.Fail = func(op string) error {
		if op == "audit.create" {
			return errors.New("audit table locked")
		}
		return nil
	}
	it := addItem(t, inv, context.Background(), "LN1")
	_, ok := st.InventoryItem(it.ID)
	assert.True(t, ok)
	assert.Empty(t, st.Audit())
}

func TestDeleteItem(t *testing.T) {
	inv, db, st := newInventory(t)
	ctx := context.Background()
	it := addItem(t, inv, ctx, "LN1")
	_, err := inv.AddMaintenance(ctx, models.MaintenanceInput{InventoryItemID: it.ID, MaintenanceType: models.MaintenanceInspection, Description: "kontrol"})
	require.NoError(t, err)

	assert.ErrorIs(t, inv.DeleteItem(ctx, it.ID, Never), errs.ErrNotConfirmed)
	assert.Len(t, st.InventoryItems(), 1)

	require.NoError(t, inv.DeleteItem(ctx, it.ID, Always))
	assert.Empty(t, st.InventoryItems())
	assert.Empty(t, st.Maintenance())
	_, err = db.Inventory().Get(ctx, it.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	trail := st.Audit()
	require.Len(t, trail, 2)
	assert.Equal(t, models.AuditDelete, trail[0].Action)
	assert.Equal(t, ReasonDeleted, trail[0].ChangeReason)
	assert.Equal(t, "LN1", trail[0].OldValues["serialNumber"])

	assert.ErrorIs(t, inv.DeleteItem(ctx, it.ID, Always), errs.ErrNotFound)
}

func TestMaintenanceDefaults(t *testing.T) {
	inv, _, _ := newInventory(t)
	ctx := context.Background()
	it := addItem(t, inv, ctx, "LN1")

	m, err := inv.AddMaintenance(ctx, models.MaintenanceInput{InventoryItemID: it.ID, MaintenanceType: models.MaintenancePreventive, Description: "temizlik"})
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceScheduled, m.Status)
	assert.Equal(t, t0, m.MaintenanceDate)

	_, err = inv.AddMaintenance(ctx, models.MaintenanceInput{InventoryItemID: "missing", MaintenanceType: models.MaintenanceRepair, Description: "x"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = inv.AddMaintenance(ctx, models.MaintenanceInput{InventoryItemID: it.ID, MaintenanceType: "wash", Description: "x"})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestMarkAsDefectiveThenRepaired(t *testing.T) {
	inv, _, st := newInventory(t)
	ctx := context.Background()
	it := addItem(t, inv, ctx, "LN1")

	got, rec, err := inv.MarkAsDefective(ctx, it.ID, "ekran kırık")
	require.NoError(t, err)
	assert.Equal(t, models.InventoryDefective, got.CurrentStatus)
	assert.Equal(t, "Arızalı olarak işaretlendi: ekran kırık", rec.Description)
	assert.Equal(t, models.MaintenanceRepair, rec.MaintenanceType)
	assert.Equal(t, models.MaintenanceScheduled, rec.Status)

	got, done, err := inv.MarkAsRepaired(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InventoryInStock, got.CurrentStatus)
	require.NotNil(t, done)
	assert.Equal(t, rec.ID, done.ID)
	assert.Equal(t, models.MaintenanceCompleted, done.Status)

	cached, _ := st.MaintenanceRecord(rec.ID)
	assert.Equal(t, models.MaintenanceCompleted, cached.Status)

	// Nothing left open.
	_, none, err := inv.MarkAsRepaired(ctx, it.ID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMarkAsRepairedPrefersInProgress(t *testing.T) {
	inv, _, _ := newInventory(t)
	ctx := context.Background()
	it := addItem(t, inv, ctx, "LN1")

	_, err := inv.AddMaintenance(ctx, models.MaintenanceInput{InventoryItemID: it.ID, MaintenanceType: models.MaintenanceRepair, Description: "planlı"})
	require.NoError(t, err)
	running, err := inv.AddMaintenance(ctx, models.MaintenanceInput{
		InventoryItemID: it.ID, MaintenanceType: models.MaintenanceRepair, Description: "serviste",
		Status: models.MaintenanceInProgress, MaintenanceDate: t0.Add(-time.Hour),
	})
	require.NoError(t, err)

	_, done, err := inv.MarkAsRepaired(ctx, it.ID)
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, running.ID, done.ID)
}

func TestMarkAsDefectiveRejectsDisposed(t *testing.T) {
	inv, _, _ := newInventory(t)
	ctx := context.Background()
	it := addItem(t, inv, ctx, "LN1")
	disposed := models.InventoryDisposed
	_, err := inv.UpdateItem(ctx, it.ID, models.InventoryItemPatch{CurrentStatus: &disposed})
	require.NoError(t, err)

	_, _, err = inv.MarkAsDefective(ctx, it.ID, "x")
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	_, _, err = inv.MarkAsDefective(ctx, "missing", "x")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestInventoryRefresh(t *testing.T) {
	inv, db, st := newInventory(t)
	ctx := context.Background()
	_, err := db.Inventory().Create(ctx, models.InventoryItemInput{ItemName: "x", SerialNumber: "s", Category: "Laptop", CurrentStatus: models.InventoryInStock})
	require.NoError(t, err)
	assert.Empty(t, st.InventoryItems())
	require.NoError(t, inv.Refresh(ctx))
	assert.Len(t, inv.Items(), 1)
}
