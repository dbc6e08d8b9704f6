package repo

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

const preventivoColumns = `id, id_sucursal, nombre_sucursal, frecuencia`

func (q *Queries) ListPreventivos(ctx context.Context) ([]Preventivo, error) {
	rows, err := q.db.Query(ctx, `SELECT `+preventivoColumns+` FROM preventivos ORDER BY nombre_sucursal ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	preventivos := []Preventivo{}
	for rows.Next() {
		p, err := scanPreventivo(rows)
		if err != nil {
			return nil, err
		}
		preventivos = append(preventivos, p)
	}
	return preventivos, rows.Err()
}

func (q *Queries) GetPreventivo(ctx context.Context, id int64) (Preventivo, error) {
	row := q.db.QueryRow(ctx, `SELECT `+preventivoColumns+` FROM preventivos WHERE id = $1`, id)
	p, err := scanPreventivo(row)
	return p, mapErr(err)
}

// GetPreventivoByNombreSucursal devuelve la primera entrada del catálogo para la sucursal.
func (q *Queries) GetPreventivoByNombreSucursal(ctx context.Context, nombre string) (Preventivo, error) {
	const query = `SELECT ` + preventivoColumns + ` FROM preventivos WHERE nombre_sucursal = $1 ORDER BY id ASC LIMIT 1`

	row := q.db.QueryRow(ctx, query, strings.TrimSpace(nombre))
	p, err := scanPreventivo(row)
	return p, mapErr(err)
}

func (q *Queries) CreatePreventivo(ctx context.Context, arg CreatePreventivoParams) (Preventivo, error) {
	const query = `
        INSERT INTO preventivos (id_sucursal, nombre_sucursal, frecuencia)
        VALUES ($1, $2, $3)
        RETURNING ` + preventivoColumns

	row := q.db.QueryRow(ctx, query, arg.SucursalID, strings.TrimSpace(arg.NombreSucursal), strings.TrimSpace(arg.Frecuencia))
	p, err := scanPreventivo(row)
	return p, mapErr(err)
}

func (q *Queries) DeletePreventivo(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM preventivos WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPreventivo(row pgx.Row) (Preventivo, error) {
	var p Preventivo
	err := row.Scan(&p.ID, &p.SucursalID, &p.NombreSucursal, &p.Frecuencia)
	return p, err
}
