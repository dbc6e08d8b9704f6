package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const mantenimientoPreventivoColumns = `
    id, nombre_sucursal, frecuencia, id_cuadrilla, fecha_apertura, fecha_cierre,
    planillas, fotos, extendido`

func (q *Queries) ListMantenimientosPreventivos(ctx context.Context) ([]MantenimientoPreventivo, error) {
	const query = `SELECT ` + mantenimientoPreventivoColumns + ` FROM mantenimientos_preventivos ORDER BY fecha_apertura DESC, id DESC`

	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []MantenimientoPreventivo{}
	for rows.Next() {
		m, err := scanMantenimientoPreventivo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (q *Queries) GetMantenimientoPreventivo(ctx context.Context, id int64) (MantenimientoPreventivo, error) {
	row := q.db.QueryRow(ctx, `SELECT `+mantenimientoPreventivoColumns+` FROM mantenimientos_preventivos WHERE id = $1`, id)
	m, err := scanMantenimientoPreventivo(row)
	return m, mapErr(err)
}

func (q *Queries) CreateMantenimientoPreventivo(ctx context.Context, arg CreateMantenimientoPreventivoParams) (MantenimientoPreventivo, error) {
	const query = `
        INSERT INTO mantenimientos_preventivos (nombre_sucursal, frecuencia, id_cuadrilla, fecha_apertura)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + mantenimientoPreventivoColumns

	row := q.db.QueryRow(ctx, query, arg.NombreSucursal, arg.Frecuencia, arg.CuadrillaID, arg.FechaApertura)
	m, err := scanMantenimientoPreventivo(row)
	return m, mapErr(err)
}

func (q *Queries) UpdateMantenimientoPreventivo(ctx context.Context, m MantenimientoPreventivo) (MantenimientoPreventivo, error) {
	const query = `
        UPDATE mantenimientos_preventivos
        SET nombre_sucursal = $2,
            frecuencia = $3,
            id_cuadrilla = $4,
            fecha_apertura = $5,
            fecha_cierre = $6,
            planillas = $7,
            fotos = $8,
            extendido = $9
        WHERE id = $1
        RETURNING ` + mantenimientoPreventivoColumns

	row := q.db.QueryRow(ctx, query,
		m.ID,
		m.NombreSucursal,
		m.Frecuencia,
		m.CuadrillaID,
		m.FechaApertura,
		m.FechaCierre,
		nonNil(m.Planillas),
		nonNil(m.Fotos),
		m.Extendido,
	)
	updated, err := scanMantenimientoPreventivo(row)
	return updated, mapErr(err)
}

func (q *Queries) DeleteMantenimientoPreventivo(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM mantenimientos_preventivos WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMantenimientoPreventivo(row pgx.Row) (MantenimientoPreventivo, error) {
	var m MantenimientoPreventivo
	err := row.Scan(
		&m.ID,
		&m.NombreSucursal,
		&m.Frecuencia,
		&m.CuadrillaID,
		&m.FechaApertura,
		&m.FechaCierre,
		&m.Planillas,
		&m.Fotos,
		&m.Extendido,
	)
	if m.Planillas == nil {
		m.Planillas = []string{}
	}
	if m.Fotos == nil {
		m.Fotos = []string{}
	}
	return m, err
}

// nonNil evita escribir NULL en columnas text[] NOT NULL.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
