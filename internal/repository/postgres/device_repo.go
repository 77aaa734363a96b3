package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
)

const deviceColumns = `id, brand, category, serial_number, status, assigned_to, assigned_date,
	maintenance_date, specifications, created_at`

// DeviceRepo implements repository.DeviceRepository.
type DeviceRepo struct{ db *DB }

func NewDeviceRepo(db *DB) *DeviceRepo { return &DeviceRepo{db: db} }

func scanDevice(row scanner) (models.Device, error) {
	var (
		d      models.Device
		status string
		specs  []byte
	)
	if err := row.Scan(&d.ID, &d.Brand, &d.Category, &d.SerialNumber, &status, &d.AssignedTo,
		&d.AssignedDate, &d.MaintenanceDate, &specs, &d.CreatedAt); err != nil {
		return models.Device{}, err
	}
	d.Status = models.DeviceStatus(status)
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &d.Specifications); err != nil {
			return models.Device{}, fmt.Errorf("decode specifications of device %s: %w", d.ID, err)
		}
	}
	return d, nil
}

func (r *DeviceRepo) List(ctx context.Context) ([]models.Device, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+deviceColumns+` FROM devices ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanDevice)
}

func (r *DeviceRepo) Get(ctx context.Context, id string) (models.Device, error) {
	d, err := scanDevice(r.db.Pool.QueryRow(ctx, `SELECT `+deviceColumns+` FROM devices WHERE id = $1`, id))
	if err != nil {
		return models.Device{}, mapErr(err, "device "+id)
	}
	return d, nil
}

func (r *DeviceRepo) Create(ctx context.Context, in models.DeviceInput) (models.Device, error) {
	specs, err := json.Marshal(in.Specifications)
	if err != nil {
		return models.Device{}, err
	}
	const q = `
INSERT INTO devices (id, brand, category, serial_number, status, maintenance_date, specifications)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + deviceColumns
	d, err := scanDevice(r.db.Pool.QueryRow(ctx, q, uuid.NewString(), in.Brand, in.Category,
		in.SerialNumber, string(in.Status), in.MaintenanceDate, specs))
	if err != nil {
		return models.Device{}, mapErr(err, "device with serial number "+in.SerialNumber)
	}
	return d, nil
}

func (r *DeviceRepo) Update(ctx context.Context, id string, patch models.DevicePatch) (models.Device, error) {
	var b updateBuilder
	if patch.Brand != nil {
		b.set("brand", *patch.Brand)
	}
	if patch.Category != nil {
		b.set("category", *patch.Category)
	}
	if patch.SerialNumber != nil {
		b.set("serial_number", *patch.SerialNumber)
	}
	if patch.Status != nil {
		b.set("status", string(*patch.Status))
	}
	if patch.MaintenanceDate != nil {
		b.set("maintenance_date", *patch.MaintenanceDate)
	}
	if patch.Specifications != nil {
		specs, err := json.Marshal(patch.Specifications)
		if err != nil {
			return models.Device{}, err
		}
		b.set("specifications", specs)
	}
	if b.empty() {
		return models.Device{}, errs.Validation("no fields to update")
	}
	q, args := b.build("devices", id, deviceColumns)
	d, err := scanDevice(r.db.Pool.QueryRow(ctx, q, args...))
	if err != nil {
		return models.Device{}, mapErr(err, "device "+id)
	}
	return d, nil
}

func (r *DeviceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM devices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("device %s", id)
	}
	return nil
}
