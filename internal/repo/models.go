package repo

import (
	"time"
)

// Rol es el papel de un usuario administrativo. Sólo existen dos valores.
type Rol string

const (
	RolAdministrador Rol = "Administrador"
	RolEncargado     Rol = "Encargado de Mantenimiento"
)

// ParseRol valida el texto recibido contra los roles conocidos.
func ParseRol(value string) (Rol, bool) {
	switch Rol(value) {
	case RolAdministrador:
		return RolAdministrador, true
	case RolEncargado:
		return RolEncargado, true
	default:
		return "", false
	}
}

// Zona agrupa sucursales y cuadrillas geográficamente.
type Zona struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

// Sucursal es un sitio físico que requiere mantenimiento.
// Zona se guarda como texto libre.
type Sucursal struct {
	ID         int64  `json:"id"`
	Nombre     string `json:"nombre"`
	Zona       string `json:"zona"`
	Direccion  string `json:"direccion"`
	Superficie string `json:"superficie"`
}

// Cuadrilla es un equipo de mantenimiento que inicia sesión con su email.
type Cuadrilla struct {
	ID          int64   `json:"id"`
	Nombre      string  `json:"nombre"`
	Zona        string  `json:"zona"`
	Email       string  `json:"email"`
	FirebaseUID *string `json:"firebase_uid,omitempty"`
}

// Usuario representa personal administrativo.
type Usuario struct {
	ID          int64   `json:"id"`
	Nombre      string  `json:"nombre"`
	Email       string  `json:"email"`
	Rol         Rol     `json:"rol"`
	FirebaseUID *string `json:"firebase_uid,omitempty"`
}

// Preventivo es una línea del catálogo de mantenimientos programados.
type Preventivo struct {
	ID             int64  `json:"id"`
	SucursalID     int64  `json:"id_sucursal"`
	NombreSucursal string `json:"nombre_sucursal"`
	Frecuencia     string `json:"frecuencia"`
}

// MantenimientoPreventivo es una orden de trabajo programada.
type MantenimientoPreventivo struct {
	ID             int64      `json:"id"`
	NombreSucursal string     `json:"nombre_sucursal"`
	Frecuencia     string     `json:"frecuencia"`
	CuadrillaID    int64      `json:"id_cuadrilla"`
	FechaApertura  time.Time  `json:"fecha_apertura"`
	FechaCierre    *time.Time `json:"fecha_cierre"`
	Planillas      []string   `json:"planillas"`
	Fotos          []string   `json:"fotos"`
	Extendido      *time.Time `json:"extendido"`
}

// MantenimientoCorrectivo es una orden de trabajo originada por un incidente.
type MantenimientoCorrectivo struct {
	ID            int64      `json:"id"`
	SucursalID    int64      `json:"id_sucursal"`
	CuadrillaID   *int64     `json:"id_cuadrilla"`
	FechaApertura time.Time  `json:"fecha_apertura"`
	FechaCierre   *time.Time `json:"fecha_cierre"`
	NumeroCaso    *string    `json:"numero_caso"`
	Incidente     *string    `json:"incidente"`
	Rubro         *string    `json:"rubro"`
	Planilla      *string    `json:"planilla"`
	Fotos         []string   `json:"fotos"`
	Estado        *string    `json:"estado"`
	Prioridad     *string    `json:"prioridad"`
	Extendido     *time.Time `json:"extendido"`
}

// Preferencia guarda las columnas visibles de una tabla para quien llama.
type Preferencia struct {
	Subject   string    `json:"-"`
	Tabla     string    `json:"tabla"`
	Columnas  []string  `json:"columns"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CuentaLocal es una identidad administrada por el proveedor local.
type CuentaLocal struct {
	SubjectID    string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type CreateSucursalParams struct {
	Nombre     string
	Zona       string
	Direccion  string
	Superficie string
}

type CreateCuadrillaParams struct {
	Nombre      string
	Zona        string
	Email       string
	FirebaseUID *string
}

type CreateUsuarioParams struct {
	Nombre      string
	Email       string
	Rol         Rol
	FirebaseUID *string
}

type CreatePreventivoParams struct {
	SucursalID     int64
	NombreSucursal string
	Frecuencia     string
}

type CreateMantenimientoPreventivoParams struct {
	NombreSucursal string
	Frecuencia     string
	CuadrillaID    int64
	FechaApertura  time.Time
}

type CreateMantenimientoCorrectivoParams struct {
	SucursalID    int64
	CuadrillaID   *int64
	FechaApertura time.Time
	NumeroCaso    *string
	Incidente     *string
	Rubro         *string
	Estado        *string
	Prioridad     *string
}
