// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"
	"time"

	"hotel-inventory-api/internal/models"
)

// DeviceRepository stores devices. List returns newest first.
type DeviceRepository interface {
	List(ctx context.Context) ([]models.Device, error)
	Get(ctx context.Context, id string) (models.Device, error)
	Create(ctx context.Context, in models.DeviceInput) (models.Device, error)
	// Update writes only the fields set in patch.
	Update(ctx context.Context, id string, patch models.DevicePatch) (models.Device, error)
	Delete(ctx context.Context, id string) error
}

// PersonnelRepository stores personnel. List returns newest first.
type PersonnelRepository interface {
	List(ctx context.Context) ([]models.Personnel, error)
	Get(ctx context.Context, id string) (models.Personnel, error)
	Create(ctx context.Context, in models.PersonnelInput) (models.Personnel, error)
	// Update writes only the fields set in patch. A rename also rewrites the holder
	// name on every device the person holds, in the same transaction; the
	// refreshed devices are returned alongside.
	Update(ctx context.Context, id string, patch models.PersonnelPatch) (models.Personnel, []models.Device, error)
	Delete(ctx context.Context, id string) error
}

// AssignmentRepository stores assignment history and runs the assign and return
// writes as single transactions.
type AssignmentRepository interface {
	// List returns assignments by assigned date, newest first.
	List(ctx context.Context) ([]models.Assignment, error)
	Get(ctx context.Context, id string) (models.Assignment, error)
	// Assign fails with errs.ErrInvalidState when the device is no longer available.
	Assign(ctx context.Context, p models.AssignParams) (models.AssignmentResult, error)
	// Return fails with errs.ErrInvalidState when the assignment is not active.
	Return(ctx context.Context, assignmentID string, at time.Time) (models.AssignmentResult, error)
}

type InventoryRepository interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	Get(ctx context.Context, id string) (models.InventoryItem, error)
	Create(ctx context.Context, in models.InventoryItemInput) (models.InventoryItem, error)
	Update(ctx context.Context, id string, patch models.InventoryItemPatch) (models.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

type MaintenanceRepository interface {
	List(ctx context.Context) ([]models.MaintenanceRecord, error)
	Get(ctx context.Context, id string) (models.MaintenanceRecord, error)
	Create(ctx context.Context, in models.MaintenanceInput) (models.MaintenanceRecord, error)
	Update(ctx context.Context, id string, patch models.MaintenancePatch) (models.MaintenanceRecord, error)
}

// AuditRepository is append-only.
type AuditRepository interface {
	List(ctx context.Context) ([]models.AuditRecord, error)
	Get(ctx context.Context, id string) (models.AuditRecord, error)
	Create(ctx context.Context, rec models.AuditRecord) (models.AuditRecord, error)
}

type SupplierRepository interface {
	List(ctx context.Context) ([]models.Supplier, error)
	Get(ctx context.Context, id string) (models.Supplier, error)
	GetByName(ctx context.Context, name string) (models.Supplier, error)
	Create(ctx context.Context, in models.SupplierInput) (models.Supplier, error)
	Update(ctx context.Context, id string, patch models.SupplierPatch) (models.Supplier, error)
	// RecordOrder adds one received order of value to the supplier's totals.
	RecordOrder(ctx context.Context, name string, value float64, at time.Time) (models.Supplier, error)
	Delete(ctx context.Context, id string) error
}

type OperatorRepository interface {
	GetByEmail(ctx context.Context, email string) (models.Operator, error)
	Get(ctx context.Context, id int64) (models.Operator, error)
	Create(ctx context.Context, op models.Operator) (models.Operator, error)
	List(ctx context.Context) ([]models.Operator, error)
}
