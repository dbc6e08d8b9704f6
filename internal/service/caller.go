package service

import (
	"fmt"

	"github.com/mantenimiento/api/internal/repo"
)

// CallerKind distingue el tipo de entidad que hace la llamada.
type CallerKind uint8

const (
	CallerUsuario CallerKind = iota + 1
	CallerCuadrilla
)

func (k CallerKind) String() string {
	switch k {
	case CallerUsuario:
		return "usuario"
	case CallerCuadrilla:
		return "cuadrilla"
	default:
		return "desconocido"
	}
}

// CallerContext es la identidad resuelta de quien llama. Un puntero nil
// representa una llamada anónima.
type CallerContext struct {
	Kind      CallerKind
	Usuario   *repo.Usuario
	Cuadrilla *repo.Cuadrilla
}

// UsuarioCaller construye el contexto para un usuario administrativo.
func UsuarioCaller(u repo.Usuario) *CallerContext {
	return &CallerContext{Kind: CallerUsuario, Usuario: &u}
}

// CuadrillaCaller construye el contexto para una cuadrilla.
func CuadrillaCaller(c repo.Cuadrilla) *CallerContext {
	return &CallerContext{Kind: CallerCuadrilla, Cuadrilla: &c}
}

// ID devuelve el id local del registro que llama.
func (c *CallerContext) ID() int64 {
	switch c.Kind {
	case CallerUsuario:
		return c.Usuario.ID
	case CallerCuadrilla:
		return c.Cuadrilla.ID
	default:
		return 0
	}
}

// Subject identifica a quien llama de forma estable entre tipos, p. ej. "usuario:3".
func (c *CallerContext) Subject() string {
	return fmt.Sprintf("%s:%d", c.Kind, c.ID())
}

// Profile es la forma pública de un CallerContext.
type Profile struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func (c *CallerContext) Profile() Profile {
	switch c.Kind {
	case CallerUsuario:
		return Profile{Type: c.Kind.String(), Data: c.Usuario}
	case CallerCuadrilla:
		return Profile{Type: c.Kind.String(), Data: c.Cuadrilla}
	default:
		return Profile{Type: c.Kind.String()}
	}
}
