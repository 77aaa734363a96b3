package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"hotel-inventory-api/internal/models"
)

const auditColumns = `id, inventory_item_id, action, old_values, new_values, changed_by, change_reason, created_at`

type AuditRepo struct{ db *DB }

func NewAuditRepo(db *DB) *AuditRepo { return &AuditRepo{db: db} }

func scanAudit(row scanner) (models.AuditRecord, error) {
	var (
		a              models.AuditRecord
		action         string
		oldVal, newVal []byte
	)
	if err := row.Scan(&a.ID, &a.InventoryItemID, &action, &oldVal, &newVal, &a.ChangedBy,
		&a.ChangeReason, &a.CreatedAt); err != nil {
		return models.AuditRecord{}, err
	}
	a.Action = models.AuditAction(action)
	var err error
	if a.OldValues, err = decodeJSONB(oldVal); err != nil {
		return models.AuditRecord{}, fmt.Errorf("decode old values of audit %s: %w", a.ID, err)
	}
	if a.NewValues, err = decodeJSONB(newVal); err != nil {
		return models.AuditRecord{}, fmt.Errorf("decode new values of audit %s: %w", a.ID, err)
	}
	return a, nil
}

func (r *AuditRepo) List(ctx context.Context) ([]models.AuditRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+auditColumns+` FROM inventory_audit ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAudit)
}

func (r *AuditRepo) Get(ctx context.Context, id string) (models.AuditRecord, error) {
	a, err := scanAudit(r.db.Pool.QueryRow(ctx, `SELECT `+auditColumns+` FROM inventory_audit WHERE id = $1`, id))
	if err != nil {
		return models.AuditRecord{}, mapErr(err, "audit record "+id)
	}
	return a, nil
}

func (r *AuditRepo) Create(ctx context.Context, rec models.AuditRecord) (models.AuditRecord, error) {
	oldVal, err := encodeJSONB(rec.OldValues)
	if err != nil {
		return models.AuditRecord{}, err
	}
	newVal, err := encodeJSONB(rec.NewValues)
	if err != nil {
		return models.AuditRecord{}, err
	}
	const q = `
INSERT INTO inventory_audit (id, inventory_item_id, action, old_values, new_values, changed_by, change_reason)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + auditColumns
	return scanAudit(r.db.Pool.QueryRow(ctx, q, uuid.NewString(), rec.InventoryItemID, string(rec.Action),
		oldVal, newVal, rec.ChangedBy, rec.ChangeReason))
}
