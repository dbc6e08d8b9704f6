package repo

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

const usuarioColumns = `id, nombre, email, rol, firebase_uid`

func (q *Queries) ListUsuarios(ctx context.Context) ([]Usuario, error) {
	rows, err := q.db.Query(ctx, `SELECT `+usuarioColumns+` FROM usuarios ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usuarios := []Usuario{}
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}
	return usuarios, rows.Err()
}

func (q *Queries) GetUsuario(ctx context.Context, id int64) (Usuario, error) {
	row := q.db.QueryRow(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE id = $1`, id)
	u, err := scanUsuario(row)
	return u, mapErr(err)
}

func (q *Queries) GetUsuarioByEmail(ctx context.Context, email string) (Usuario, error) {
	row := q.db.QueryRow(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE lower(email) = $1`, normalizeEmail(email))
	u, err := scanUsuario(row)
	return u, mapErr(err)
}

func (q *Queries) CreateUsuario(ctx context.Context, arg CreateUsuarioParams) (Usuario, error) {
	const query = `
        INSERT INTO usuarios (nombre, email, rol, firebase_uid)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + usuarioColumns

	row := q.db.QueryRow(ctx, query,
		strings.TrimSpace(arg.Nombre),
		normalizeEmail(arg.Email),
		string(arg.Rol),
		arg.FirebaseUID,
	)
	u, err := scanUsuario(row)
	return u, mapErr(err)
}

func (q *Queries) UpdateUsuario(ctx context.Context, u Usuario) (Usuario, error) {
	const query = `
        UPDATE usuarios
        SET nombre = $2, email = $3, rol = $4, firebase_uid = $5
        WHERE id = $1
        RETURNING ` + usuarioColumns

	row := q.db.QueryRow(ctx, query, u.ID, u.Nombre, normalizeEmail(u.Email), string(u.Rol), u.FirebaseUID)
	updated, err := scanUsuario(row)
	return updated, mapErr(err)
}

func (q *Queries) SetUsuarioFirebaseUID(ctx context.Context, id int64, uid string) error {
	tag, err := q.db.Exec(ctx, `UPDATE usuarios SET firebase_uid = $2 WHERE id = $1`, id, uid)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *Queries) DeleteUsuario(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUsuario(row pgx.Row) (Usuario, error) {
	var (
		u   Usuario
		rol string
	)
	if err := row.Scan(&u.ID, &u.Nombre, &u.Email, &rol, &u.FirebaseUID); err != nil {
		return u, err
	}
	u.Rol = Rol(rol)
	return u, nil
}
