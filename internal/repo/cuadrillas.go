package repo

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

const cuadrillaColumns = `id, nombre, zona, email, firebase_uid`

func (q *Queries) ListCuadrillas(ctx context.Context) ([]Cuadrilla, error) {
	rows, err := q.db.Query(ctx, `SELECT `+cuadrillaColumns+` FROM cuadrillas ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cuadrillas := []Cuadrilla{}
	for rows.Next() {
		c, err := scanCuadrilla(rows)
		if err != nil {
			return nil, err
		}
		cuadrillas = append(cuadrillas, c)
	}
	return cuadrillas, rows.Err()
}

func (q *Queries) GetCuadrilla(ctx context.Context, id int64) (Cuadrilla, error) {
	row := q.db.QueryRow(ctx, `SELECT `+cuadrillaColumns+` FROM cuadrillas WHERE id = $1`, id)
	c, err := scanCuadrilla(row)
	return c, mapErr(err)
}

// GetCuadrillaByEmail compara el email sin distinguir mayúsculas.
func (q *Queries) GetCuadrillaByEmail(ctx context.Context, email string) (Cuadrilla, error) {
	row := q.db.QueryRow(ctx, `SELECT `+cuadrillaColumns+` FROM cuadrillas WHERE lower(email) = $1`, normalizeEmail(email))
	c, err := scanCuadrilla(row)
	return c, mapErr(err)
}

func (q *Queries) CreateCuadrilla(ctx context.Context, arg CreateCuadrillaParams) (Cuadrilla, error) {
	const query = `
        INSERT INTO cuadrillas (nombre, zona, email, firebase_uid)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + cuadrillaColumns

	row := q.db.QueryRow(ctx, query,
		strings.TrimSpace(arg.Nombre),
		strings.TrimSpace(arg.Zona),
		normalizeEmail(arg.Email),
		arg.FirebaseUID,
	)
	c, err := scanCuadrilla(row)
	return c, mapErr(err)
}

func (q *Queries) UpdateCuadrilla(ctx context.Context, c Cuadrilla) (Cuadrilla, error) {
	const query = `
        UPDATE cuadrillas
        SET nombre = $2, zona = $3, email = $4, firebase_uid = $5
        WHERE id = $1
        RETURNING ` + cuadrillaColumns

	row := q.db.QueryRow(ctx, query, c.ID, c.Nombre, c.Zona, normalizeEmail(c.Email), c.FirebaseUID)
	updated, err := scanCuadrilla(row)
	return updated, mapErr(err)
}

func (q *Queries) SetCuadrillaFirebaseUID(ctx context.Context, id int64, uid string) error {
	tag, err := q.db.Exec(ctx, `UPDATE cuadrillas SET firebase_uid = $2 WHERE id = $1`, id, uid)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *Queries) DeleteCuadrilla(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM cuadrillas WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountCuadrillaUsage cuenta los mantenimientos asignados a la cuadrilla.
func (q *Queries) CountCuadrillaUsage(ctx context.Context, id int64) (int64, error) {
	const query = `
        SELECT (SELECT count(*) FROM mantenimientos_preventivos WHERE id_cuadrilla = $1)
             + (SELECT count(*) FROM mantenimientos_correctivos WHERE id_cuadrilla = $1)
    `

	var total int64
	err := q.db.QueryRow(ctx, query, id).Scan(&total)
	return total, err
}

func scanCuadrilla(row pgx.Row) (Cuadrilla, error) {
	var c Cuadrilla
	err := row.Scan(&c.ID, &c.Nombre, &c.Zona, &c.Email, &c.FirebaseUID)
	return c, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
