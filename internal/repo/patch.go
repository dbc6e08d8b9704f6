package repo

import "time"

// Los patches aplican sólo los campos presentes (no nil); el resto conserva
// el valor guardado.

type SucursalPatch struct {
	Nombre     *string
	Zona       *string
	Direccion  *string
	Superficie *string
}

func (p SucursalPatch) Apply(s *Sucursal) {
	if p.Nombre != nil {
		s.Nombre = *p.Nombre
	}
	if p.Zona != nil {
		s.Zona = *p.Zona
	}
	if p.Direccion != nil {
		s.Direccion = *p.Direccion
	}
	if p.Superficie != nil {
		s.Superficie = *p.Superficie
	}
}

type CuadrillaPatch struct {
	Nombre   *string
	Zona     *string
	Email    *string
	Password *string
}

func (p CuadrillaPatch) Apply(c *Cuadrilla) {
	if p.Nombre != nil {
		c.Nombre = *p.Nombre
	}
	if p.Zona != nil {
		c.Zona = *p.Zona
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
}

// TouchesIdentity indica si el proveedor de identidad debe actualizarse.
func (p CuadrillaPatch) TouchesIdentity() bool {
	return p.Email != nil || p.Password != nil
}

type UsuarioPatch struct {
	Nombre   *string
	Email    *string
	Rol      *Rol
	Password *string
}

func (p UsuarioPatch) Apply(u *Usuario) {
	if p.Nombre != nil {
		u.Nombre = *p.Nombre
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Rol != nil {
		u.Rol = *p.Rol
	}
}

func (p UsuarioPatch) TouchesIdentity() bool {
	return p.Email != nil || p.Password != nil
}

// MantenimientoPreventivoPatch no incluye adjuntos: esos se suben aparte.
type MantenimientoPreventivoPatch struct {
	NombreSucursal *string
	Frecuencia     *string
	CuadrillaID    *int64
	FechaApertura  *time.Time
	FechaCierre    *time.Time
	Extendido      *time.Time
}

func (p MantenimientoPreventivoPatch) Apply(m *MantenimientoPreventivo) {
	if p.NombreSucursal != nil {
		m.NombreSucursal = *p.NombreSucursal
	}
	if p.Frecuencia != nil {
		m.Frecuencia = *p.Frecuencia
	}
	if p.CuadrillaID != nil {
		m.CuadrillaID = *p.CuadrillaID
	}
	if p.FechaApertura != nil {
		m.FechaApertura = *p.FechaApertura
	}
	if p.FechaCierre != nil {
		v := *p.FechaCierre
		m.FechaCierre = &v
	}
	if p.Extendido != nil {
		v := *p.Extendido
		m.Extendido = &v
	}
}

type MantenimientoCorrectivoPatch struct {
	SucursalID    *int64
	CuadrillaID   *int64
	FechaApertura *time.Time
	FechaCierre   *time.Time
	NumeroCaso    *string
	Incidente     *string
	Rubro         *string
	Estado        *string
	Prioridad     *string
	Extendido     *time.Time
}

func (p MantenimientoCorrectivoPatch) Apply(m *MantenimientoCorrectivo) {
	if p.SucursalID != nil {
		m.SucursalID = *p.SucursalID
	}
	if p.CuadrillaID != nil {
		v := *p.CuadrillaID
		m.CuadrillaID = &v
	}
	if p.FechaApertura != nil {
		m.FechaApertura = *p.FechaApertura
	}
	if p.FechaCierre != nil {
		v := *p.FechaCierre
		m.FechaCierre = &v
	}
	if p.NumeroCaso != nil {
		v := *p.NumeroCaso
		m.NumeroCaso = &v
	}
	if p.Incidente != nil {
		v := *p.Incidente
		m.Incidente = &v
	}
	if p.Rubro != nil {
		v := *p.Rubro
		m.Rubro = &v
	}
	if p.Estado != nil {
		v := *p.Estado
		m.Estado = &v
	}
	if p.Prioridad != nil {
		v := *p.Prioridad
		m.Prioridad = &v
	}
	if p.Extendido != nil {
		v := *p.Extendido
		m.Extendido = &v
	}
}
