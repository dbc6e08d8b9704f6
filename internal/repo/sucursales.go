package repo

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

const sucursalColumns = `id, nombre, zona, direccion, superficie`

func (q *Queries) ListSucursales(ctx context.Context) ([]Sucursal, error) {
	rows, err := q.db.Query(ctx, `SELECT `+sucursalColumns+` FROM sucursales ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sucursales := []Sucursal{}
	for rows.Next() {
		s, err := scanSucursal(rows)
		if err != nil {
			return nil, err
		}
		sucursales = append(sucursales, s)
	}
	return sucursales, rows.Err()
}

func (q *Queries) GetSucursal(ctx context.Context, id int64) (Sucursal, error) {
	row := q.db.QueryRow(ctx, `SELECT `+sucursalColumns+` FROM sucursales WHERE id = $1`, id)
	s, err := scanSucursal(row)
	return s, mapErr(err)
}

func (q *Queries) CreateSucursal(ctx context.Context, arg CreateSucursalParams) (Sucursal, error) {
	const query = `
        INSERT INTO sucursales (nombre, zona, direccion, superficie)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + sucursalColumns

	row := q.db.QueryRow(ctx, query,
		strings.TrimSpace(arg.Nombre),
		strings.TrimSpace(arg.Zona),
		strings.TrimSpace(arg.Direccion),
		strings.TrimSpace(arg.Superficie),
	)
	s, err := scanSucursal(row)
	return s, mapErr(err)
}

// UpdateSucursal persiste todos los campos del registro ya modificado en memoria.
func (q *Queries) UpdateSucursal(ctx context.Context, s Sucursal) (Sucursal, error) {
	const query = `
        UPDATE sucursales
        SET nombre = $2, zona = $3, direccion = $4, superficie = $5
        WHERE id = $1
        RETURNING ` + sucursalColumns

	row := q.db.QueryRow(ctx, query, s.ID, s.Nombre, s.Zona, s.Direccion, s.Superficie)
	updated, err := scanSucursal(row)
	return updated, mapErr(err)
}

func (q *Queries) DeleteSucursal(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM sucursales WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSucursal(row pgx.Row) (Sucursal, error) {
	var s Sucursal
	err := row.Scan(&s.ID, &s.Nombre, &s.Zona, &s.Direccion, &s.Superficie)
	return s, err
}
