package service

import (
	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/repo"
)

const (
	msgAuthRequired  = "Autenticación requerida"
	msgNoPermission  = "No tienes permisos"
	msgNotAdmin      = "No tienes permisos de administrador"
	msgNotSelfOrAdmn = "No tienes permisos para ver este usuario"
)

// RequireAuthenticated sólo exige que haya un caller resuelto.
func RequireAuthenticated(caller *CallerContext) error {
	if caller == nil {
		return apperr.Unauthenticated(msgAuthRequired)
	}
	return nil
}

// RequireUsuario exige un caller de tipo usuario, con cualquier rol.
func RequireUsuario(caller *CallerContext) error {
	if err := RequireAuthenticated(caller); err != nil {
		return err
	}
	switch caller.Kind {
	case CallerUsuario:
		return nil
	case CallerCuadrilla:
		return apperr.Forbidden(msgNoPermission)
	default:
		return apperr.Forbidden(msgNoPermission)
	}
}

// RequireAdmin exige un usuario con rol Administrador.
func RequireAdmin(caller *CallerContext) error {
	if err := RequireAuthenticated(caller); err != nil {
		return err
	}
	switch caller.Kind {
	case CallerUsuario:
		return requireRol(caller.Usuario.Rol, repo.RolAdministrador, msgNotAdmin)
	case CallerCuadrilla:
		return apperr.Forbidden(msgNotAdmin)
	default:
		return apperr.Forbidden(msgNotAdmin)
	}
}

// RequireSelfOrAdmin permite al administrador o al propio usuario.
func RequireSelfOrAdmin(caller *CallerContext, targetID int64) error {
	if err := RequireAuthenticated(caller); err != nil {
		return err
	}
	switch caller.Kind {
	case CallerUsuario:
		if caller.Usuario.ID == targetID {
			return nil
		}
		return requireRol(caller.Usuario.Rol, repo.RolAdministrador, msgNotSelfOrAdmn)
	case CallerCuadrilla:
		return apperr.Forbidden(msgNotSelfOrAdmn)
	default:
		return apperr.Forbidden(msgNotSelfOrAdmn)
	}
}

func requireRol(have, want repo.Rol, message string) error {
	switch have {
	case repo.RolAdministrador, repo.RolEncargado:
		if have == want {
			return nil
		}
		return apperr.Forbidden(message)
	default:
		return apperr.Forbidden(message)
	}
}
