package repo

import (
	"context"
	"strings"
)

// ListZonas devuelve todas las zonas ordenadas por nombre.
func (q *Queries) ListZonas(ctx context.Context) ([]Zona, error) {
	const query = `SELECT id, nombre FROM zonas ORDER BY nombre ASC`

	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zonas := []Zona{}
	for rows.Next() {
		var z Zona
		if err := rows.Scan(&z.ID, &z.Nombre); err != nil {
			return nil, err
		}
		zonas = append(zonas, z)
	}
	return zonas, rows.Err()
}

func (q *Queries) GetZona(ctx context.Context, id int64) (Zona, error) {
	const query = `SELECT id, nombre FROM zonas WHERE id = $1`

	var z Zona
	err := q.db.QueryRow(ctx, query, id).Scan(&z.ID, &z.Nombre)
	return z, mapErr(err)
}

func (q *Queries) GetZonaByNombre(ctx context.Context, nombre string) (Zona, error) {
	const query = `SELECT id, nombre FROM zonas WHERE nombre = $1`

	var z Zona
	err := q.db.QueryRow(ctx, query, strings.TrimSpace(nombre)).Scan(&z.ID, &z.Nombre)
	return z, mapErr(err)
}

func (q *Queries) CreateZona(ctx context.Context, nombre string) (Zona, error) {
	const query = `INSERT INTO zonas (nombre) VALUES ($1) RETURNING id, nombre`

	var z Zona
	err := q.db.QueryRow(ctx, query, strings.TrimSpace(nombre)).Scan(&z.ID, &z.Nombre)
	return z, mapErr(err)
}

func (q *Queries) DeleteZona(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM zonas WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountZonaUsage cuenta sucursales y cuadrillas que referencian la zona por nombre.
func (q *Queries) CountZonaUsage(ctx context.Context, nombre string) (int64, error) {
	const query = `
        SELECT (SELECT count(*) FROM sucursales WHERE zona = $1)
             + (SELECT count(*) FROM cuadrillas WHERE zona = $1)
    `

	var total int64
	err := q.db.QueryRow(ctx, query, nombre).Scan(&total)
	return total, err
}
