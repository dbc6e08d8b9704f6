package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/identity"
	"github.com/mantenimiento/api/internal/repo"
)

const msgUsuarioNotFound = "Usuario no encontrado"

// CreateUsuarioInput son los datos de alta de un usuario administrativo.
type CreateUsuarioInput struct {
	Nombre string
	Rol    repo.Rol
	Credentials
}

// UsuarioService provisiona usuarios en el proveedor y en la base local.
type UsuarioService struct {
	store repo.Store
	provisioner
}

func NewUsuarioService(store repo.Store, provider identity.Provider, compensator Compensator) *UsuarioService {
	return &UsuarioService{
		store:       store,
		provisioner: provisioner{provider: provider, compensator: compensator},
	}
}

func (s *UsuarioService) List(ctx context.Context, caller *CallerContext) ([]repo.Usuario, error) {
	if err := RequireAdmin(caller); err != nil {
		return nil, err
	}
	items, err := s.store.ListUsuarios(ctx)
	return items, storeErr(err, msgUsuarioNotFound)
}

func (s *UsuarioService) Get(ctx context.Context, caller *CallerContext, id int64) (repo.Usuario, error) {
	if err := RequireSelfOrAdmin(caller, id); err != nil {
		return repo.Usuario{}, err
	}
	u, err := s.store.GetUsuario(ctx, id)
	return u, storeErr(err, msgUsuarioNotFound)
}

// Create sigue el orden: permisos, unicidad, proveedor, registro local. Si el
// registro local falla después de crear la cuenta, se encola su borrado.
func (s *UsuarioService) Create(ctx context.Context, caller *CallerContext, in CreateUsuarioInput) (repo.Usuario, error) {
	if err := RequireAdmin(caller); err != nil {
		return repo.Usuario{}, err
	}
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Nombre == "" {
		return repo.Usuario{}, apperr.Validation("El nombre es obligatorio")
	}
	if _, ok := repo.ParseRol(string(in.Rol)); !ok {
		return repo.Usuario{}, apperr.Validation("Rol inválido")
	}
	if err := validateCredentials(in.Credentials); err != nil {
		return repo.Usuario{}, err
	}
	if err := ensureEmailFree(ctx, s.store, in.Email, CallerUsuario, 0); err != nil {
		return repo.Usuario{}, storeErr(err, msgUsuarioNotFound)
	}

	subject, created, err := s.acquire(ctx, in.Credentials)
	if err != nil {
		return repo.Usuario{}, err
	}

	var usuario repo.Usuario
	err = s.store.ExecTx(ctx, func(q repo.Querier) error {
		var err error
		usuario, err = q.CreateUsuario(ctx, repo.CreateUsuarioParams{
			Nombre:      in.Nombre,
			Email:       in.Email,
			Rol:         in.Rol,
			FirebaseUID: &subject,
		})
		if errors.Is(err, repo.ErrDuplicate) {
			return apperr.Conflict("El email ya existe para otro usuario")
		}
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("email", in.Email).Str("subject", subject).Msg("alta de usuario sin registro local")
		if created {
			compensateIdentity(ctx, s.compensator, subject, "alta de usuario fallida")
		}
		return repo.Usuario{}, storeErr(err, msgUsuarioNotFound)
	}
	return usuario, nil
}

// Update aplica sólo los campos presentes. Email y contraseña se propagan al
// proveedor antes de confirmar la transacción local.
func (s *UsuarioService) Update(ctx context.Context, caller *CallerContext, id int64, patch repo.UsuarioPatch) (repo.Usuario, error) {
	if err := RequireAdmin(caller); err != nil {
		return repo.Usuario{}, err
	}
	if patch.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*patch.Email))
		patch.Email = &normalized
	}
	if patch.Nombre != nil && strings.TrimSpace(*patch.Nombre) == "" {
		return repo.Usuario{}, apperr.Validation("El nombre no puede quedar vacío")
	}
	if patch.Rol != nil {
		if _, ok := repo.ParseRol(string(*patch.Rol)); !ok {
			return repo.Usuario{}, apperr.Validation("Rol inválido")
		}
	}
	if err := validatePatchCredentials(patch.Email, patch.Password); err != nil {
		return repo.Usuario{}, err
	}

	var updated repo.Usuario
	err := s.store.ExecTx(ctx, func(q repo.Querier) error {
		current, err := q.GetUsuario(ctx, id)
		if err != nil {
			return err
		}
		if patch.Email != nil && *patch.Email != current.Email {
			if err := ensureEmailFree(ctx, q, *patch.Email, CallerUsuario, id); err != nil {
				return err
			}
		}
		previousEmail := current.Email
		patch.Apply(&current)

		if patch.TouchesIdentity() {
			subject, err := s.sync(ctx, current.FirebaseUID, previousEmail, patch.Email, patch.Password)
			if err != nil {
				return err
			}
			if subject != "" {
				current.FirebaseUID = &subject
			}
		}
		updated, err = q.UpdateUsuario(ctx, current)
		return err
	})
	if err != nil {
		return repo.Usuario{}, storeErr(err, msgUsuarioNotFound)
	}
	return updated, nil
}

// Delete borra la identidad del proveedor en modo best-effort y luego el registro local.
func (s *UsuarioService) Delete(ctx context.Context, caller *CallerContext, id int64) (Mensaje, error) {
	if err := RequireAdmin(caller); err != nil {
		return Mensaje{}, err
	}
	var u repo.Usuario
	err := s.store.ExecTx(ctx, func(q repo.Querier) error {
		var err error
		if u, err = q.GetUsuario(ctx, id); err != nil {
			return err
		}
		return q.DeleteUsuario(ctx, id)
	})
	if err != nil {
		return Mensaje{}, storeErr(err, msgUsuarioNotFound)
	}

	s.release(ctx, u.FirebaseUID, "baja de usuario")
	return Mensaje{Message: "Usuario eliminado correctamente"}, nil
}

// ensureEmailFree verifica que ningún otro usuario ni cuadrilla use el email.
// Un email compartido haría ambigua la resolución del caller.
func ensureEmailFree(ctx context.Context, q repo.Querier, email string, kind CallerKind, selfID int64) error {
	u, err := q.GetUsuarioByEmail(ctx, email)
	switch {
	case err == nil:
		if kind != CallerUsuario || u.ID != selfID {
			return apperr.Conflict("El email ya existe para otro usuario")
		}
	case !errors.Is(err, repo.ErrNotFound):
		return err
	}

	c, err := q.GetCuadrillaByEmail(ctx, email)
	switch {
	case err == nil:
		if kind != CallerCuadrilla || c.ID != selfID {
			return apperr.Conflict("El email ya existe para otra cuadrilla")
		}
	case !errors.Is(err, repo.ErrNotFound):
		return err
	}
	return nil
}

// Bootstrap crea el primer administrador sin caller. Si el email ya existe
// devuelve el registro guardado y created=false.
func (s *UsuarioService) Bootstrap(ctx context.Context, nombre string, cred Credentials) (repo.Usuario, bool, error) {
	email := strings.ToLower(strings.TrimSpace(cred.Email))
	existing, err := s.store.GetUsuarioByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return repo.Usuario{}, false, storeErr(err, msgUsuarioNotFound)
	}

	system := UsuarioCaller(repo.Usuario{Nombre: "sistema", Rol: repo.RolAdministrador})
	created, err := s.Create(ctx, system, CreateUsuarioInput{
		Nombre:      nombre,
		Rol:         repo.RolAdministrador,
		Credentials: cred,
	})
	if err != nil {
		return repo.Usuario{}, false, err
	}
	return created, true, nil
}
