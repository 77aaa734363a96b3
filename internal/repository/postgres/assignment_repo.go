package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
)

const assignmentColumns = `id, device_id, personnel_id, assigned_date, returned_date, status, notes`

// AssignmentRepo implements repository.AssignmentRepository. Assign and Return each
// touch three tables inside one transaction and rely on conditional updates, so two
// concurrent callers can never both claim the same device or close the same assignment.
type AssignmentRepo struct{ db *DB }

func NewAssignmentRepo(db *DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

func scanAssignment(row scanner) (models.Assignment, error) {
	var (
		a      models.Assignment
		status string
	)
	if err := row.Scan(&a.ID, &a.DeviceID, &a.PersonnelID, &a.AssignedDate, &a.ReturnedDate,
		&status, &a.Notes); err != nil {
		return models.Assignment{}, err
	}
	a.Status = models.AssignmentStatus(status)
	return a, nil
}

func (r *AssignmentRepo) List(ctx context.Context) ([]models.Assignment, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+assignmentColumns+` FROM assignments ORDER BY assigned_date DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAssignment)
}

func (r *AssignmentRepo) Get(ctx context.Context, id string) (models.Assignment, error) {
	a, err := scanAssignment(r.db.Pool.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id))
	if err != nil {
		return models.Assignment{}, mapErr(err, "assignment "+id)
	}
	return a, nil
}

func (r *AssignmentRepo) Assign(ctx context.Context, p models.AssignParams) (res models.AssignmentResult, err error) {
	const claim = `
UPDATE devices SET status = 'assigned', assigned_to = $2, assigned_date = $3
WHERE id = $1 AND status = 'available'
RETURNING ` + deviceColumns
	const insert = `
INSERT INTO assignments (id, device_id, personnel_id, assigned_date, status, notes)
VALUES ($1, $2, $3, $4, 'active', $5)
RETURNING ` + assignmentColumns
	const hold = `
UPDATE personnel SET assigned_devices = array_append(array_remove(assigned_devices, $1), $1)
WHERE id = $2
RETURNING ` + personnelColumns

	err = r.db.inTx(ctx, func(tx pgx.Tx) error {
		d, err := scanDevice(tx.QueryRow(ctx, claim, p.DeviceID, p.PersonnelName, p.At))
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.Invalid("device %s is not available", p.DeviceID)
		}
		if err != nil {
			return err
		}

		a, err := scanAssignment(tx.QueryRow(ctx, insert, uuid.NewString(), p.DeviceID, p.PersonnelID, p.At, p.Notes))
		if isUniqueViolation(err) {
			return errs.Invalid("device %s already has an active assignment", p.DeviceID)
		}
		if err != nil {
			return err
		}

		person, err := scanPersonnel(tx.QueryRow(ctx, hold, p.DeviceID, p.PersonnelID))
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.NotFound("personnel %s", p.PersonnelID)
		}
		if err != nil {
			return err
		}

		res = models.AssignmentResult{Assignment: a, Device: &d, Personnel: &person}
		return nil
	})
	if err != nil {
		return models.AssignmentResult{}, err
	}
	return res, nil
}

func (r *AssignmentRepo) Return(ctx context.Context, assignmentID string, at time.Time) (res models.AssignmentResult, err error) {
	const closeAssignment = `
UPDATE assignments SET status = 'returned', returned_date = $2
WHERE id = $1 AND status = 'active'
RETURNING ` + assignmentColumns
	const release = `
UPDATE devices SET status = 'available', assigned_to = NULL, assigned_date = NULL
WHERE id = $1 AND status = 'assigned'
RETURNING ` + deviceColumns
	const drop = `
UPDATE personnel SET assigned_devices = array_remove(assigned_devices, $1)
WHERE id = $2
RETURNING ` + personnelColumns

	err = r.db.inTx(ctx, func(tx pgx.Tx) error {
		a, err := scanAssignment(tx.QueryRow(ctx, closeAssignment, assignmentID, at))
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.Invalid("assignment %s is not active", assignmentID)
		}
		if err != nil {
			return err
		}
		res.Assignment = a

		d, err := scanDevice(tx.QueryRow(ctx, release, a.DeviceID))
		switch {
		case err == nil:
			res.Device = &d
		case !errors.Is(err, pgx.ErrNoRows):
			return err
		}

		person, err := scanPersonnel(tx.QueryRow(ctx, drop, a.DeviceID, a.PersonnelID))
		switch {
		case err == nil:
			res.Personnel = &person
		case !errors.Is(err, pgx.ErrNoRows):
			return err
		}
		return nil
	})
	if err != nil {
		return models.AssignmentResult{}, err
	}
	return res, nil
}
