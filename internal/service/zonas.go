package service

import (
	"context"
	"errors"
	"strings"

	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/repo"
)

const msgZonaNotFound = "Zona no encontrada"

// ZonaService administra las zonas geográficas.
type ZonaService struct {
	store repo.Store
}

func NewZonaService(store repo.Store) *ZonaService {
	return &ZonaService{store: store}
}

func (s *ZonaService) List(ctx context.Context, caller *CallerContext) ([]repo.Zona, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	zonas, err := s.store.ListZonas(ctx)
	return zonas, storeErr(err, msgZonaNotFound)
}

func (s *ZonaService) Get(ctx context.Context, caller *CallerContext, id int64) (repo.Zona, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return repo.Zona{}, err
	}
	z, err := s.store.GetZona(ctx, id)
	return z, storeErr(err, msgZonaNotFound)
}

// Create falla con Conflict si ya existe una zona con ese nombre.
func (s *ZonaService) Create(ctx context.Context, caller *CallerContext, nombre string) (repo.Zona, error) {
	if err := RequireUsuario(caller); err != nil {
		return repo.Zona{}, err
	}
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return repo.Zona{}, apperr.Validation("El nombre de la zona es obligatorio")
	}

	var created repo.Zona
	err := s.store.ExecTx(ctx, func(q repo.Querier) error {
		if _, err := q.GetZonaByNombre(ctx, nombre); err == nil {
			return apperr.Conflict("La zona ya existe")
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		z, err := q.CreateZona(ctx, nombre)
		if errors.Is(err, repo.ErrDuplicate) {
			return apperr.Conflict("La zona ya existe")
		}
		created = z
		return err
	})
	if err != nil {
		return repo.Zona{}, storeErr(err, msgZonaNotFound)
	}
	return created, nil
}

// Delete rechaza borrar una zona referenciada por sucursales o cuadrillas.
// El conteo y el borrado no son atómicos frente a inserciones concurrentes.
func (s *ZonaService) Delete(ctx context.Context, caller *CallerContext, id int64) (Mensaje, error) {
	if err := RequireUsuario(caller); err != nil {
		return Mensaje{}, err
	}
	err := s.store.ExecTx(ctx, func(q repo.Querier) error {
		z, err := q.GetZona(ctx, id)
		if err != nil {
			return err
		}
		usos, err := q.CountZonaUsage(ctx, z.Nombre)
		if err != nil {
			return err
		}
		if usos > 0 {
			return apperr.Conflict("La zona está en uso")
		}
		return q.DeleteZona(ctx, id)
	})
	if err != nil {
		return Mensaje{}, storeErr(err, msgZonaNotFound)
	}
	return Mensaje{Message: "Zona eliminada"}, nil
}
