package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
)

const supplierColumns = `id, name, contact_person, email, phone, address, categories, rating, total_orders,
	total_value, last_order_date, payment_terms, delivery_time, notes, created_at`

type SupplierRepo struct{ db *DB }

func NewSupplierRepo(db *DB) *SupplierRepo { return &SupplierRepo{db: db} }

func scanSupplier(row scanner) (models.Supplier, error) {
	var s models.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &s.Address, &s.Categories,
		&s.Rating, &s.TotalOrders, &s.TotalValue, &s.LastOrderDate, &s.PaymentTerms, &s.DeliveryTime,
		&s.Notes, &s.CreatedAt); err != nil {
		return models.Supplier{}, err
	}
	if s.Categories == nil {
		s.Categories = []string{}
	}
	return s, nil
}

func (r *SupplierRepo) List(ctx context.Context) ([]models.Supplier, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSupplier)
}

func (r *SupplierRepo) Get(ctx context.Context, id string) (models.Supplier, error) {
	s, err := scanSupplier(r.db.Pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		return models.Supplier{}, mapErr(err, "supplier "+id)
	}
	return s, nil
}

func (r *SupplierRepo) GetByName(ctx context.Context, name string) (models.Supplier, error) {
	s, err := scanSupplier(r.db.Pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE name = $1`, name))
	if err != nil {
		return models.Supplier{}, mapErr(err, "supplier "+name)
	}
	return s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, in models.SupplierInput) (models.Supplier, error) {
	categories := in.Categories
	if categories == nil {
		categories = []string{}
	}
	const q = `
INSERT INTO suppliers (id, name, contact_person, email, phone, address, categories, rating,
	payment_terms, delivery_time, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + supplierColumns
	s, err := scanSupplier(r.db.Pool.QueryRow(ctx, q, uuid.NewString(), in.Name, in.ContactPerson, in.Email,
		in.Phone, in.Address, categories, in.Rating, in.PaymentTerms, in.DeliveryTime, in.Notes))
	if err != nil {
		return models.Supplier{}, mapErr(err, "supplier "+in.Name)
	}
	return s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, id string, p models.SupplierPatch) (models.Supplier, error) {
	var b updateBuilder
	setStr := func(col string, v *string) {
		if v != nil {
			b.set(col, *v)
		}
	}
	setStr("name", p.Name)
	setStr("contact_person", p.ContactPerson)
	setStr("email", p.Email)
	setStr("phone", p.Phone)
	setStr("address", p.Address)
	if p.Categories != nil {
		b.set("categories", *p.Categories)
	}
	if p.Rating != nil {
		b.set("rating", *p.Rating)
	}
	setStr("payment_terms", p.PaymentTerms)
	setStr("delivery_time", p.DeliveryTime)
	setStr("notes", p.Notes)
	if b.empty() {
		return models.Supplier{}, errs.Validation("no fields to update")
	}
	q, args := b.build("suppliers", id, supplierColumns)
	s, err := scanSupplier(r.db.Pool.QueryRow(ctx, q, args...))
	if err != nil {
		return models.Supplier{}, mapErr(err, "supplier "+id)
	}
	return s, nil
}

func (r *SupplierRepo) RecordOrder(ctx context.Context, name string, value float64, at time.Time) (models.Supplier, error) {
	const q = `
UPDATE suppliers
SET total_orders = total_orders + 1, total_value = total_value + $2, last_order_date = $3
WHERE name = $1
RETURNING ` + supplierColumns
	s, err := scanSupplier(r.db.Pool.QueryRow(ctx, q, name, value, at))
	if err != nil {
		return models.Supplier{}, mapErr(err, "supplier "+name)
	}
	return s, nil
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("supplier %s", id)
	}
	return nil
}
