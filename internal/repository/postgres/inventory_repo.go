package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
)

const inventoryColumns = `id, item_name, serial_number, purchase_date, current_status, location_department,
	warranty_start_date, warranty_end_date, warranty_provider, purchase_price, supplier, category,
	brand, model, specifications, notes, created_at, updated_at`

// InventoryRepo implements repository.InventoryRepository.
type InventoryRepo struct{ db *DB }

func NewInventoryRepo(db *DB) *InventoryRepo { return &InventoryRepo{db: db} }

// encodeJSONB returns nil for an empty object so the column stays NULL.
func encodeJSONB(m models.JSONB) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func decodeJSONB(data []byte) (models.JSONB, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var m models.JSONB
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func scanInventoryItem(row scanner) (models.InventoryItem, error) {
	var (
		it     models.InventoryItem
		status string
		specs  []byte
	)
	if err := row.Scan(&it.ID, &it.ItemName, &it.SerialNumber, &it.PurchaseDate, &status,
		&it.LocationDepartment, &it.WarrantyStartDate, &it.WarrantyEndDate, &it.WarrantyProvider,
		&it.PurchasePrice, &it.Supplier, &it.Category, &it.Brand, &it.Model, &specs, &it.Notes,
		&it.CreatedAt, &it.UpdatedAt); err != nil {
		return models.InventoryItem{}, err
	}
	it.CurrentStatus = models.InventoryStatus(status)
	m, err := decodeJSONB(specs)
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("decode specifications of item %s: %w", it.ID, err)
	}
	it.Specifications = m
	return it, nil
}

func (r *InventoryRepo) List(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+inventoryColumns+` FROM inventory_items ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanInventoryItem)
}

func (r *InventoryRepo) Get(ctx context.Context, id string) (models.InventoryItem, error) {
	it, err := scanInventoryItem(r.db.Pool.QueryRow(ctx, `SELECT `+inventoryColumns+` FROM inventory_items WHERE id = $1`, id))
	if err != nil {
		return models.InventoryItem{}, mapErr(err, "inventory item "+id)
	}
	return it, nil
}

func (r *InventoryRepo) Create(ctx context.Context, in models.InventoryItemInput) (models.InventoryItem, error) {
	specs, err := encodeJSONB(in.Specifications)
	if err != nil {
		return models.InventoryItem{}, err
	}
	const q = `
INSERT INTO inventory_items (id, item_name, serial_number, purchase_date, current_status,
	location_department, warranty_start_date, warranty_end_date, warranty_provider, purchase_price,
	supplier, category, brand, model, specifications, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING ` + inventoryColumns
	it, err := scanInventoryItem(r.db.Pool.QueryRow(ctx, q, uuid.NewString(), in.ItemName, in.SerialNumber,
		in.PurchaseDate, string(in.CurrentStatus), in.LocationDepartment, in.WarrantyStartDate,
		in.WarrantyEndDate, in.WarrantyProvider, in.PurchasePrice, in.Supplier, in.Category, in.Brand,
		in.Model, specs, in.Notes))
	if err != nil {
		return models.InventoryItem{}, mapErr(err, "inventory item "+in.SerialNumber)
	}
	return it, nil
}

func (r *InventoryRepo) Update(ctx context.Context, id string, p models.InventoryItemPatch) (models.InventoryItem, error) {
	var b updateBuilder
	setStr := func(col string, v *string) {
		if v != nil {
			b.set(col, *v)
		}
	}
	setStr("item_name", p.ItemName)
	setStr("serial_number", p.SerialNumber)
	if p.PurchaseDate != nil {
		b.set("purchase_date", *p.PurchaseDate)
	}
	if p.CurrentStatus != nil {
		b.set("current_status", string(*p.CurrentStatus))
	}
	setStr("location_department", p.LocationDepartment)
	if p.WarrantyStartDate != nil {
		b.set("warranty_start_date", *p.WarrantyStartDate)
	}
	if p.WarrantyEndDate != nil {
		b.set("warranty_end_date", *p.WarrantyEndDate)
	}
	setStr("warranty_provider", p.WarrantyProvider)
	if p.PurchasePrice != nil {
		b.set("purchase_price", *p.PurchasePrice)
	}
	setStr("supplier", p.Supplier)
	setStr("category", p.Category)
	setStr("brand", p.Brand)
	setStr("model", p.Model)
	if p.Specifications != nil {
		specs, err := encodeJSONB(p.Specifications)
		if err != nil {
			return models.InventoryItem{}, err
		}
		b.set("specifications", specs)
	}
	setStr("notes", p.Notes)
	if b.empty() {
		return models.InventoryItem{}, errs.Validation("no fields to update")
	}
	b.raw("updated_at = now()")

	q, args := b.build("inventory_items", id, inventoryColumns)
	it, err := scanInventoryItem(r.db.Pool.QueryRow(ctx, q, args...))
	if err != nil {
		return models.InventoryItem{}, mapErr(err, "inventory item "+id)
	}
	return it, nil
}

func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("inventory item %s", id)
	}
	return nil
}
