package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mantenimiento/api/internal/db"
)

// DBTX lo satisfacen tanto *pgxpool.Pool como pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Querier lista todas las operaciones de persistencia que usan los servicios.
type Querier interface {
	ListZonas(ctx context.Context) ([]Zona, error)
	GetZona(ctx context.Context, id int64) (Zona, error)
	GetZonaByNombre(ctx context.Context, nombre string) (Zona, error)
	CreateZona(ctx context.Context, nombre string) (Zona, error)
	DeleteZona(ctx context.Context, id int64) error
	CountZonaUsage(ctx context.Context, nombre string) (int64, error)

	ListSucursales(ctx context.Context) ([]Sucursal, error)
	GetSucursal(ctx context.Context, id int64) (Sucursal, error)
	CreateSucursal(ctx context.Context, arg CreateSucursalParams) (Sucursal, error)
	UpdateSucursal(ctx context.Context, s Sucursal) (Sucursal, error)
	DeleteSucursal(ctx context.Context, id int64) error

	ListCuadrillas(ctx context.Context) ([]Cuadrilla, error)
	GetCuadrilla(ctx context.Context, id int64) (Cuadrilla, error)
	GetCuadrillaByEmail(ctx context.Context, email string) (Cuadrilla, error)
	CreateCuadrilla(ctx context.Context, arg CreateCuadrillaParams) (Cuadrilla, error)
	UpdateCuadrilla(ctx context.Context, c Cuadrilla) (Cuadrilla, error)
	SetCuadrillaFirebaseUID(ctx context.Context, id int64, uid string) error
	DeleteCuadrilla(ctx context.Context, id int64) error
	CountCuadrillaUsage(ctx context.Context, id int64) (int64, error)

	ListUsuarios(ctx context.Context) ([]Usuario, error)
	GetUsuario(ctx context.Context, id int64) (Usuario, error)
	GetUsuarioByEmail(ctx context.Context, email string) (Usuario, error)
	CreateUsuario(ctx context.Context, arg CreateUsuarioParams) (Usuario, error)
	UpdateUsuario(ctx context.Context, u Usuario) (Usuario, error)
	SetUsuarioFirebaseUID(ctx context.Context, id int64, uid string) error
	DeleteUsuario(ctx context.Context, id int64) error

	ListPreventivos(ctx context.Context) ([]Preventivo, error)
	GetPreventivo(ctx context.Context, id int64) (Preventivo, error)
	GetPreventivoByNombreSucursal(ctx context.Context, nombre string) (Preventivo, error)
	CreatePreventivo(ctx context.Context, arg CreatePreventivoParams) (Preventivo, error)
	DeletePreventivo(ctx context.Context, id int64) error

	ListMantenimientosPreventivos(ctx context.Context) ([]MantenimientoPreventivo, error)
	GetMantenimientoPreventivo(ctx context.Context, id int64) (MantenimientoPreventivo, error)
	CreateMantenimientoPreventivo(ctx context.Context, arg CreateMantenimientoPreventivoParams) (MantenimientoPreventivo, error)
	UpdateMantenimientoPreventivo(ctx context.Context, m MantenimientoPreventivo) (MantenimientoPreventivo, error)
	DeleteMantenimientoPreventivo(ctx context.Context, id int64) error

	ListMantenimientosCorrectivos(ctx context.Context) ([]MantenimientoCorrectivo, error)
	GetMantenimientoCorrectivo(ctx context.Context, id int64) (MantenimientoCorrectivo, error)
	CreateMantenimientoCorrectivo(ctx context.Context, arg CreateMantenimientoCorrectivoParams) (MantenimientoCorrectivo, error)
	UpdateMantenimientoCorrectivo(ctx context.Context, m MantenimientoCorrectivo) (MantenimientoCorrectivo, error)
	DeleteMantenimientoCorrectivo(ctx context.Context, id int64) error

	GetPreferencia(ctx context.Context, subject, tabla string) (Preferencia, error)
	UpsertPreferencia(ctx context.Context, p Preferencia) (Preferencia, error)
}

// Store agrega la ejecución transaccional sobre un Querier.
type Store interface {
	Querier
	ExecTx(ctx context.Context, fn func(q Querier) error) error
}

// Queries implementa Querier sobre un pool o una transacción.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx devuelve Queries ligadas a la transacción informada.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// PgStore es el Store respaldado por PostgreSQL.
type PgStore struct {
	*Queries
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{Queries: New(pool), pool: pool}
}

// ExecTx ejecuta fn en una única transacción; cualquier error la revierte.
func (s *PgStore) ExecTx(ctx context.Context, fn func(q Querier) error) error {
	return db.WithTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(s.Queries.WithTx(tx))
	})
}

var _ Store = (*PgStore)(nil)
