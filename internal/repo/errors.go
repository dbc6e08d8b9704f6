package repo

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound se devuelve cuando la consulta no encuentra filas.
	ErrNotFound = errors.New("registro no encontrado")
	// ErrDuplicate indica violación de una restricción UNIQUE.
	ErrDuplicate = errors.New("registro duplicado")
	// ErrInUse indica que otra tabla todavía referencia el registro.
	ErrInUse = errors.New("registro en uso")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapErr traduce errores del driver a los centinelas del paquete.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrInUse
		}
	}
	return err
}
