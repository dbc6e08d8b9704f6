package repo

import (
	"context"
)

func (q *Queries) GetPreferencia(ctx context.Context, subject, tabla string) (Preferencia, error) {
	const query = `
        SELECT subject, tabla, columnas, updated_at
        FROM preferencias
        WHERE subject = $1 AND tabla = $2
    `

	var p Preferencia
	err := q.db.QueryRow(ctx, query, subject, tabla).Scan(&p.Subject, &p.Tabla, &p.Columnas, &p.UpdatedAt)
	return p, mapErr(err)
}

// UpsertPreferencia reemplaza las columnas guardadas para (subject, tabla).
func (q *Queries) UpsertPreferencia(ctx context.Context, p Preferencia) (Preferencia, error) {
	const query = `
        INSERT INTO preferencias (subject, tabla, columnas, updated_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (subject, tabla)
        DO UPDATE SET columnas = EXCLUDED.columnas, updated_at = now()
        RETURNING subject, tabla, columnas, updated_at
    `

	var saved Preferencia
	err := q.db.QueryRow(ctx, query, p.Subject, p.Tabla, nonNil(p.Columnas)).
		Scan(&saved.Subject, &saved.Tabla, &saved.Columnas, &saved.UpdatedAt)
	return saved, mapErr(err)
}
