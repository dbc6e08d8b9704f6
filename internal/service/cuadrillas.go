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

const (
	msgCuadrillaNotFound = "Cuadrilla no encontrada"
	msgCuadrillaInUse    = "La cuadrilla tiene mantenimientos asignados"
)

// CreateCuadrillaInput son los datos de alta de una cuadrilla.
type CreateCuadrillaInput struct {
	Nombre string
	Zona   string
	Credentials
}

// CuadrillaService provisiona cuadrillas. Cualquier usuario puede
// administrarlas; las cuadrillas no.
type CuadrillaService struct {
	store repo.Store
	provisioner
}

func NewCuadrillaService(store repo.Store, provider identity.Provider, compensator Compensator) *CuadrillaService {
	return &CuadrillaService{
		store:       store,
		provisioner: provisioner{provider: provider, compensator: compensator},
	}
}

func (s *CuadrillaService) List(ctx context.Context, caller *CallerContext) ([]repo.Cuadrilla, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	items, err := s.store.ListCuadrillas(ctx)
	return items, storeErr(err, msgCuadrillaNotFound)
}

func (s *CuadrillaService) Get(ctx context.Context, caller *CallerContext, id int64) (repo.Cuadrilla, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return repo.Cuadrilla{}, err
	}
	c, err := s.store.GetCuadrilla(ctx, id)
	return c, storeErr(err, msgCuadrillaNotFound)
}

func (s *CuadrillaService) Create(ctx context.Context, caller *CallerContext, in CreateCuadrillaInput) (repo.Cuadrilla, error) {
	if err := RequireUsuario(caller); err != nil {
		return repo.Cuadrilla{}, err
	}
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Zona = strings.TrimSpace(in.Zona)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Nombre == "" {
		return repo.Cuadrilla{}, apperr.Validation("El nombre es obligatorio")
	}
	if err := validateCredentials(in.Credentials); err != nil {
		return repo.Cuadrilla{}, err
	}
	if err := ensureEmailFree(ctx, s.store, in.Email, CallerCuadrilla, 0); err != nil {
		return repo.Cuadrilla{}, storeErr(err, msgCuadrillaNotFound)
	}

	subject, created, err := s.acquire(ctx, in.Credentials)
	if err != nil {
		return repo.Cuadrilla{}, err
	}

	var cuadrilla repo.Cuadrilla
	err = s.store.ExecTx(ctx, func(q repo.Querier) error {
		var err error
		cuadrilla, err = q.CreateCuadrilla(ctx, repo.CreateCuadrillaParams{
			Nombre:      in.Nombre,
			Zona:        in.Zona,
			Email:       in.Email,
			FirebaseUID: &subject,
		})
		if errors.Is(err, repo.ErrDuplicate) {
			return apperr.Conflict("El email ya existe para otra cuadrilla")
		}
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("email", in.Email).Str("subject", subject).Msg("alta de cuadrilla sin registro local")
		if created {
			compensateIdentity(ctx, s.compensator, subject, "alta de cuadrilla fallida")
		}
		return repo.Cuadrilla{}, storeErr(err, msgCuadrillaNotFound)
	}
	return cuadrilla, nil
}

func (s *CuadrillaService) Update(ctx context.Context, caller *CallerContext, id int64, patch repo.CuadrillaPatch) (repo.Cuadrilla, error) {
	if err := RequireUsuario(caller); err != nil {
		return repo.Cuadrilla{}, err
	}
	if patch.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*patch.Email))
		patch.Email = &normalized
	}
	if patch.Nombre != nil && strings.TrimSpace(*patch.Nombre) == "" {
		return repo.Cuadrilla{}, apperr.Validation("El nombre no puede quedar vacío")
	}
	if err := validatePatchCredentials(patch.Email, patch.Password); err != nil {
		return repo.Cuadrilla{}, err
	}

	var updated repo.Cuadrilla
	err := s.store.ExecTx(ctx, func(q repo.Querier) error {
		current, err := q.GetCuadrilla(ctx, id)
		if err != nil {
			return err
		}
		if patch.Email != nil && *patch.Email != current.Email {
			if err := ensureEmailFree(ctx, q, *patch.Email, CallerCuadrilla, id); err != nil {
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
		updated, err = q.UpdateCuadrilla(ctx, current)
		return err
	})
	if err != nil {
		return repo.Cuadrilla{}, storeErr(err, msgCuadrillaNotFound)
	}
	return updated, nil
}

// Delete no se bloquea si el proveedor falla: la falla queda registrada y
// encolada, y el registro local se borra igual.
func (s *CuadrillaService) Delete(ctx context.Context, caller *CallerContext, id int64) (Mensaje, error) {
	if err := RequireUsuario(caller); err != nil {
		return Mensaje{}, err
	}
	// La identidad del proveedor se borra recién después del commit local:
	// si la cuadrilla sigue referenciada la cuenta queda intacta.
	var c repo.Cuadrilla
	err := s.store.ExecTx(ctx, func(q repo.Querier) error {
		var err error
		if c, err = q.GetCuadrilla(ctx, id); err != nil {
			return err
		}
		usos, err := q.CountCuadrillaUsage(ctx, id)
		if err != nil {
			return err
		}
		if usos > 0 {
			return apperr.Conflict(msgCuadrillaInUse)
		}
		return q.DeleteCuadrilla(ctx, id)
	})
	if err != nil {
		return Mensaje{}, storeErr(err, msgCuadrillaNotFound)
	}

	s.release(ctx, c.FirebaseUID, "baja de cuadrilla")
	return Mensaje{Message: "Cuadrilla eliminada correctamente"}, nil
}
