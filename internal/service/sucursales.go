package service

import (
	"context"
	"strings"

	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/repo"
)

const msgSucursalNotFound = "Sucursal no encontrada"

// SucursalService administra sucursales. La zona se guarda como texto libre
// y no se valida contra la tabla de zonas.
type SucursalService struct {
	store repo.Store
}

func NewSucursalService(store repo.Store) *SucursalService {
	return &SucursalService{store: store}
}

func (s *SucursalService) List(ctx context.Context, caller *CallerContext) ([]repo.Sucursal, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	items, err := s.store.ListSucursales(ctx)
	return items, storeErr(err, msgSucursalNotFound)
}

func (s *SucursalService) Get(ctx context.Context, caller *CallerContext, id int64) (repo.Sucursal, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return repo.Sucursal{}, err
	}
	item, err := s.store.GetSucursal(ctx, id)
	return item, storeErr(err, msgSucursalNotFound)
}

func (s *SucursalService) Create(ctx context.Context, caller *CallerContext, arg repo.CreateSucursalParams) (repo.Sucursal, error) {
	if err := RequireUsuario(caller); err != nil {
		return repo.Sucursal{}, err
	}
	if strings.TrimSpace(arg.Nombre) == "" {
		return repo.Sucursal{}, apperr.Validation("El nombre de la sucursal es obligatorio")
	}
	item, err := s.store.CreateSucursal(ctx, arg)
	return item, storeErr(err, msgSucursalNotFound)
}

func (s *SucursalService) Update(ctx context.Context, caller *CallerContext, id int64, patch repo.SucursalPatch) (repo.Sucursal, error) {
	if err := RequireUsuario(caller); err != nil {
		return repo.Sucursal{}, err
	}
	if patch.Nombre != nil && strings.TrimSpace(*patch.Nombre) == "" {
		return repo.Sucursal{}, apperr.Validation("El nombre de la sucursal no puede quedar vacío")
	}

	var updated repo.Sucursal
	err := s.store.ExecTx(ctx, func(q repo.Querier) error {
		current, err := q.GetSucursal(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(&current)
		updated, err = q.UpdateSucursal(ctx, current)
		return err
	})
	if err != nil {
		return repo.Sucursal{}, storeErr(err, msgSucursalNotFound)
	}
	return updated, nil
}

// Delete borra la sucursal; sus entradas de catálogo caen en cascada. Si
// tiene mantenimientos correctivos el borrado falla con Conflict.
func (s *SucursalService) Delete(ctx context.Context, caller *CallerContext, id int64) (Mensaje, error) {
	if err := RequireUsuario(caller); err != nil {
		return Mensaje{}, err
	}
	if err := s.store.DeleteSucursal(ctx, id); err != nil {
		return Mensaje{}, storeErr(err, msgSucursalNotFound)
	}
	return Mensaje{Message: "Sucursal eliminada"}, nil
}
