package postgres

import (
	"context"

	"github.com/google/uuid"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
)

const maintenanceColumns = `id, inventory_item_id, maintenance_date, maintenance_type, description, cost,
	technician, supplier_service, status, created_at, updated_at`

type MaintenanceRepo struct{ db *DB }

func NewMaintenanceRepo(db *DB) *MaintenanceRepo { return &MaintenanceRepo{db: db} }

func scanMaintenance(row scanner) (models.MaintenanceRecord, error) {
	var (
		m            models.MaintenanceRecord
		kind, status string
	)
	if err := row.Scan(&m.ID, &m.InventoryItemID, &m.MaintenanceDate, &kind, &m.Description, &m.Cost,
		&m.Technician, &m.SupplierService, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return models.MaintenanceRecord{}, err
	}
	m.MaintenanceType = models.MaintenanceType(kind)
	m.Status = models.MaintenanceStatus(status)
	return m, nil
}

func (r *MaintenanceRepo) List(ctx context.Context) ([]models.MaintenanceRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+maintenanceColumns+` FROM inventory_maintenance ORDER BY maintenance_date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMaintenance)
}

func (r *MaintenanceRepo) Get(ctx context.Context, id string) (models.MaintenanceRecord, error) {
	m, err := scanMaintenance(r.db.Pool.QueryRow(ctx, `SELECT `+maintenanceColumns+` FROM inventory_maintenance WHERE id = $1`, id))
	if err != nil {
		return models.MaintenanceRecord{}, mapErr(err, "maintenance record "+id)
	}
	return m, nil
}

func (r *MaintenanceRepo) Create(ctx context.Context, in models.MaintenanceInput) (models.MaintenanceRecord, error) {
	const q = `
INSERT INTO inventory_maintenance (id, inventory_item_id, maintenance_date, maintenance_type,
	description, cost, technician, supplier_service, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + maintenanceColumns
	m, err := scanMaintenance(r.db.Pool.QueryRow(ctx, q, uuid.NewString(), in.InventoryItemID,
		in.MaintenanceDate, string(in.MaintenanceType), in.Description, in.Cost, in.Technician,
		in.SupplierService, string(in.Status)))
	if err != nil {
		return models.MaintenanceRecord{}, mapErr(err, "maintenance record")
	}
	return m, nil
}

func (r *MaintenanceRepo) Update(ctx context.Context, id string, p models.MaintenancePatch) (models.MaintenanceRecord, error) {
	var b updateBuilder
	if p.MaintenanceDate != nil {
		b.set("maintenance_date", *p.MaintenanceDate)
	}
	if p.MaintenanceType != nil {
		b.set("maintenance_type", string(*p.MaintenanceType))
	}
	if p.Description != nil {
		b.set("description", *p.Description)
	}
	if p.Cost != nil {
		b.set("cost", *p.Cost)
	}
	if p.Technician != nil {
		b.set("technician", *p.Technician)
	}
	if p.SupplierService != nil {
		b.set("supplier_service", *p.SupplierService)
	}
	if p.Status != nil {
		b.set("status", string(*p.Status))
	}
	if b.empty() {
		return models.MaintenanceRecord{}, errs.Validation("no fields to update")
	}
	b.raw("updated_at = now()")

	q, args := b.build("inventory_maintenance", id, maintenanceColumns)
	m, err := scanMaintenance(r.db.Pool.QueryRow(ctx, q, args...))
	if err != nil {
		return models.MaintenanceRecord{}, mapErr(err, "maintenance record "+id)
	}
	return m, nil
}
