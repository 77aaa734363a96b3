package postgres

import (
	"context"
	"fmt"
	"strings"

	"hotel-inventory-api/internal/models"
)

const operatorColumns = `id, name, email, password_hash, roles, active, created_at`

// OperatorRepo stores the accounts allowed to sign in.
type OperatorRepo struct{ db *DB }

func NewOperatorRepo(db *DB) *OperatorRepo { return &OperatorRepo{db: db} }

func scanOperator(row scanner) (models.Operator, error) {
	var o models.Operator
	if err := row.Scan(&o.ID, &o.Name, &o.Email, &o.PasswordHash, &o.Roles, &o.Active, &o.CreatedAt); err != nil {
		return models.Operator{}, err
	}
	return o, nil
}

func (r *OperatorRepo) GetByEmail(ctx context.Context, email string) (models.Operator, error) {
	o, err := scanOperator(r.db.Pool.QueryRow(ctx,
		`SELECT `+operatorColumns+` FROM operators WHERE lower(email) = lower($1)`, strings.TrimSpace(email)))
	if err != nil {
		return models.Operator{}, mapErr(err, "operator "+email)
	}
	return o, nil
}

func (r *OperatorRepo) Get(ctx context.Context, id int64) (models.Operator, error) {
	o, err := scanOperator(r.db.Pool.QueryRow(ctx, `SELECT `+operatorColumns+` FROM operators WHERE id = $1`, id))
	if err != nil {
		return models.Operator{}, mapErr(err, fmt.Sprintf("operator %d", id))
	}
	return o, nil
}

func (r *OperatorRepo) Create(ctx context.Context, op models.Operator) (models.Operator, error) {
	const q = `
INSERT INTO operators (name, email, password_hash, roles, active)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + operatorColumns
	o, err := scanOperator(r.db.Pool.QueryRow(ctx, q, op.Name, strings.ToLower(op.Email), op.PasswordHash, op.Roles, op.Active))
	if err != nil {
		return models.Operator{}, mapErr(err, "operator "+op.Email)
	}
	return o, nil
}

func (r *OperatorRepo) List(ctx context.Context) ([]models.Operator, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+operatorColumns+` FROM operators ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanOperator)
}
