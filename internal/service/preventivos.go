package service

import (
	"context"
	"errors"
	"strings"

	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/repo"
)

const msgPreventivoNotFound = "Preventivo no encontrado"

// PreventivoService administra el catálogo de mantenimientos programados.
type PreventivoService struct {
	store repo.Store
}

func NewPreventivoService(store repo.Store) *PreventivoService {
	return &PreventivoService{store: store}
}

// CreatePreventivoInput es la entrada de catálogo; el nombre de la sucursal
// se copia desde la sucursal referenciada.
type CreatePreventivoInput struct {
	SucursalID int64
	Frecuencia string
}

func (s *PreventivoService) List(ctx context.Context, caller *CallerContext) ([]repo.Preventivo, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	items, err := s.store.ListPreventivos(ctx)
	return items, storeErr(err, msgPreventivoNotFound)
}

func (s *PreventivoService) Get(ctx context.Context, caller *CallerContext, id int64) (repo.Preventivo, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return repo.Preventivo{}, err
	}
	item, err := s.store.GetPreventivo(ctx, id)
	return item, storeErr(err, msgPreventivoNotFound)
}

func (s *PreventivoService) Create(ctx context.Context, caller *CallerContext, in CreatePreventivoInput) (repo.Preventivo, error) {
	if err := RequireUsuario(caller); err != nil {
		return repo.Preventivo{}, err
	}
	frecuencia := strings.TrimSpace(in.Frecuencia)
	if frecuencia == "" {
		return repo.Preventivo{}, apperr.Validation("La frecuencia es obligatoria")
	}

	var created repo.Preventivo
	err := s.store.ExecTx(ctx, func(q repo.Querier) error {
		sucursal, err := q.GetSucursal(ctx, in.SucursalID)
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound(msgSucursalNotFound)
		}
		if err != nil {
			return err
		}
		created, err = q.CreatePreventivo(ctx, repo.CreatePreventivoParams{
			SucursalID:     sucursal.ID,
			NombreSucursal: sucursal.Nombre,
			Frecuencia:     frecuencia,
		})
		if errors.Is(err, repo.ErrDuplicate) {
			return apperr.Conflict("El preventivo ya existe para esa sucursal y frecuencia")
		}
		return err
	})
	if err != nil {
		return repo.Preventivo{}, storeErr(err, msgPreventivoNotFound)
	}
	return created, nil
}

func (s *PreventivoService) Delete(ctx context.Context, caller *CallerContext, id int64) (Mensaje, error) {
	if err := RequireUsuario(caller); err != nil {
		return Mensaje{}, err
	}
	if err := s.store.DeletePreventivo(ctx, id); err != nil {
		return Mensaje{}, storeErr(err, msgPreventivoNotFound)
	}
	return Mensaje{Message: "Preventivo eliminado"}, nil
}
