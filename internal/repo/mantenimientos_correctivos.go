package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const mantenimientoCorrectivoColumns = `
    id, id_sucursal, id_cuadrilla, fecha_apertura, fecha_cierre, numero_caso,
    incidente, rubro, planilla, fotos, estado, prioridad, extendido`

func (q *Queries) ListMantenimientosCorrectivos(ctx context.Context) ([]MantenimientoCorrectivo, error) {
	const query = `SELECT ` + mantenimientoCorrectivoColumns + ` FROM mantenimientos_correctivos ORDER BY fecha_apertura DESC, id DESC`

	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []MantenimientoCorrectivo{}
	for rows.Next() {
		m, err := scanMantenimientoCorrectivo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (q *Queries) GetMantenimientoCorrectivo(ctx context.Context, id int64) (MantenimientoCorrectivo, error) {
	row := q.db.QueryRow(ctx, `SELECT `+mantenimientoCorrectivoColumns+` FROM mantenimientos_correctivos WHERE id = $1`, id)
	m, err := scanMantenimientoCorrectivo(row)
	return m, mapErr(err)
}

// CreateMantenimientoCorrectivo inserta la orden sin cierre ni adjuntos.
func (q *Queries) CreateMantenimientoCorrectivo(ctx context.Context, arg CreateMantenimientoCorrectivoParams) (MantenimientoCorrectivo, error) {
	const query = `
        INSERT INTO mantenimientos_correctivos (
            id_sucursal, id_cuadrilla, fecha_apertura, numero_caso, incidente, rubro, estado, prioridad
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + mantenimientoCorrectivoColumns

	row := q.db.QueryRow(ctx, query,
		arg.SucursalID,
		arg.CuadrillaID,
		arg.FechaApertura,
		arg.NumeroCaso,
		arg.Incidente,
		arg.Rubro,
		arg.Estado,
		arg.Prioridad,
	)
	m, err := scanMantenimientoCorrectivo(row)
	return m, mapErr(err)
}

func (q *Queries) UpdateMantenimientoCorrectivo(ctx context.Context, m MantenimientoCorrectivo) (MantenimientoCorrectivo, error) {
	const query = `
        UPDATE mantenimientos_correctivos
        SET id_sucursal = $2,
            id_cuadrilla = $3,
            fecha_apertura = $4,
            fecha_cierre = $5,
            numero_caso = $6,
            incidente = $7,
            rubro = $8,
            planilla = $9,
            fotos = $10,
            estado = $11,
            prioridad = $12,
            extendido = $13
        WHERE id = $1
        RETURNING ` + mantenimientoCorrectivoColumns

	row := q.db.QueryRow(ctx, query,
		m.ID,
		m.SucursalID,
		m.CuadrillaID,
		m.FechaApertura,
		m.FechaCierre,
		m.NumeroCaso,
		m.Incidente,
		m.Rubro,
		m.Planilla,
		nonNil(m.Fotos),
		m.Estado,
		m.Prioridad,
		m.Extendido,
	)
	updated, err := scanMantenimientoCorrectivo(row)
	return updated, mapErr(err)
}

func (q *Queries) DeleteMantenimientoCorrectivo(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM mantenimientos_correctivos WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMantenimientoCorrectivo(row pgx.Row) (MantenimientoCorrectivo, error) {
	var m MantenimientoCorrectivo
	err := row.Scan(
		&m.ID,
		&m.SucursalID,
		&m.CuadrillaID,
		&m.FechaApertura,
		&m.FechaCierre,
		&m.NumeroCaso,
		&m.Incidente,
		&m.Rubro,
		&m.Planilla,
		&m.Fotos,
		&m.Estado,
		&m.Prioridad,
		&m.Extendido,
	)
	if m.Fotos == nil {
		m.Fotos = []string{}
	}
	return m, err
}
