package repo

import (
	"context"
	"time"
)

// Las cuentas locales sólo las usa el proveedor de identidad local; no forman
// parte de Querier.

func (q *Queries) GetCuentaLocal(ctx context.Context, subjectID string) (CuentaLocal, error) {
	const query = `SELECT subject_id, email, password_hash, created_at FROM cuentas_locales WHERE subject_id = $1`

	var c CuentaLocal
	err := q.db.QueryRow(ctx, query, subjectID).Scan(&c.SubjectID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	return c, mapErr(err)
}

func (q *Queries) GetCuentaLocalByEmail(ctx context.Context, email string) (CuentaLocal, error) {
	const query = `SELECT subject_id, email, password_hash, created_at FROM cuentas_locales WHERE email = $1`

	var c CuentaLocal
	err := q.db.QueryRow(ctx, query, normalizeEmail(email)).Scan(&c.SubjectID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	return c, mapErr(err)
}

func (q *Queries) CreateCuentaLocal(ctx context.Context, subjectID, email, passwordHash string) (CuentaLocal, error) {
	const query = `
        INSERT INTO cuentas_locales (subject_id, email, password_hash, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING subject_id, email, password_hash, created_at
    `

	var c CuentaLocal
	err := q.db.QueryRow(ctx, query, subjectID, normalizeEmail(email), passwordHash, time.Now().UTC()).
		Scan(&c.SubjectID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	return c, mapErr(err)
}

// UpdateCuentaLocal cambia email y/o hash; los argumentos nil conservan el valor.
func (q *Queries) UpdateCuentaLocal(ctx context.Context, subjectID string, email, passwordHash *string) error {
	const query = `
        UPDATE cuentas_locales
        SET email = COALESCE($2, email),
            password_hash = COALESCE($3, password_hash)
        WHERE subject_id = $1
    `

	var normalized *string
	if email != nil {
		v := normalizeEmail(*email)
		normalized = &v
	}
	tag, err := q.db.Exec(ctx, query, subjectID, normalized, passwordHash)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *Queries) DeleteCuentaLocal(ctx context.Context, subjectID string) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM cuentas_locales WHERE subject_id = $1`, subjectID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
