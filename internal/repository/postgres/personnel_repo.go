package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
)

const personnelColumns = `id, name, department, title, email, phone, assigned_devices, created_at`

// PersonnelRepo implements repository.PersonnelRepository. Assignment history is not
// a column; the state store derives it from the assignments table.
type PersonnelRepo struct{ db *DB }

func NewPersonnelRepo(db *DB) *PersonnelRepo { return &PersonnelRepo{db: db} }

func scanPersonnel(row scanner) (models.Personnel, error) {
	var p models.Personnel
	if err := row.Scan(&p.ID, &p.Name, &p.Department, &p.Title, &p.Email, &p.Phone,
		&p.AssignedDevices, &p.CreatedAt); err != nil {
		return models.Personnel{}, err
	}
	if p.AssignedDevices == nil {
		p.AssignedDevices = []string{}
	}
	p.AssignmentHistory = []string{}
	return p, nil
}

func (r *PersonnelRepo) List(ctx context.Context) ([]models.Personnel, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+personnelColumns+` FROM personnel ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPersonnel)
}

func (r *PersonnelRepo) Get(ctx context.Context, id string) (models.Personnel, error) {
	p, err := scanPersonnel(r.db.Pool.QueryRow(ctx, `SELECT `+personnelColumns+` FROM personnel WHERE id = $1`, id))
	if err != nil {
		return models.Personnel{}, mapErr(err, "personnel "+id)
	}
	return p, nil
}

func (r *PersonnelRepo) Create(ctx context.Context, in models.PersonnelInput) (models.Personnel, error) {
	const q = `
INSERT INTO personnel (id, name, department, title, email, phone)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + personnelColumns
	p, err := scanPersonnel(r.db.Pool.QueryRow(ctx, q, uuid.NewString(), in.Name, in.Department,
		in.Title, in.Email, in.Phone))
	if err != nil {
		return models.Personnel{}, mapErr(err, "personnel "+in.Name)
	}
	return p, nil
}

func (r *PersonnelRepo) Update(ctx context.Context, id string, patch models.PersonnelPatch) (out models.Personnel, devices []models.Device, err error) {
	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Department != nil {
		b.set("department", *patch.Department)
	}
	if patch.Title != nil {
		b.set("title", *patch.Title)
	}
	if patch.Email != nil {
		b.set("email", *patch.Email)
	}
	if patch.Phone != nil {
		b.set("phone", *patch.Phone)
	}
	if b.empty() {
		return models.Personnel{}, nil, errs.Validation("no fields to update")
	}
	q, args := b.build("personnel", id, personnelColumns)

	err = r.db.inTx(ctx, func(tx pgx.Tx) error {
		p, err := scanPersonnel(tx.QueryRow(ctx, q, args...))
		if err != nil {
			return mapErr(err, "personnel "+id)
		}
		out = p
		if patch.Name == nil || len(p.AssignedDevices) == 0 {
			return nil
		}
		const rename = `
UPDATE devices SET assigned_to = $1
WHERE id = ANY($2::uuid[]) AND status = 'assigned'
RETURNING ` + deviceColumns
		rows, err := tx.Query(ctx, rename, p.Name, p.AssignedDevices)
		if err != nil {
			return err
		}
		devices, err = collect(rows, scanDevice)
		return err
	})
	if err != nil {
		return models.Personnel{}, nil, err
	}
	return out, devices, nil
}

func (r *PersonnelRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM personnel WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("personnel %s", id)
	}
	return nil
}
