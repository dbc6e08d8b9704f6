package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/repo"
	"github.com/mantenimiento/api/internal/storage"
)

const (
	msgCorrectivoNotFound = "Mantenimiento correctivo no encontrado"
	correctivosFolder     = "mantenimientos_correctivos"
)

// UpdateMantenimientoCorrectivoInput combina el patch con los adjuntos nuevos.
type UpdateMantenimientoCorrectivoInput struct {
	Patch    repo.MantenimientoCorrectivoPatch
	Planilla *storage.File
	Fotos    []storage.File
}

// MantenimientoCorrectivoService gestiona las órdenes por incidente.
type MantenimientoCorrectivoService struct {
	store       repo.Store
	uploader    storage.Uploader
	compensator Compensator
}

func NewMantenimientoCorrectivoService(store repo.Store, uploader storage.Uploader, compensator Compensator) *MantenimientoCorrectivoService {
	return &MantenimientoCorrectivoService{store: store, uploader: uploader, compensator: compensator}
}

func (s *MantenimientoCorrectivoService) List(ctx context.Context, caller *CallerContext) ([]repo.MantenimientoCorrectivo, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	items, err := s.store.ListMantenimientosCorrectivos(ctx)
	return items, storeErr(err, msgCorrectivoNotFound)
}

func (s *MantenimientoCorrectivoService) Get(ctx context.Context, caller *CallerContext, id int64) (repo.MantenimientoCorrectivo, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return repo.MantenimientoCorrectivo{}, err
	}
	item, err := s.store.GetMantenimientoCorrectivo(ctx, id)
	return item, storeErr(err, msgCorrectivoNotFound)
}

// Create valida sucursal y cuadrilla antes de insertar. Cierre y adjuntos
// quedan vacíos hasta una actualización.
func (s *MantenimientoCorrectivoService) Create(ctx context.Context, caller *CallerContext, arg repo.CreateMantenimientoCorrectivoParams) (repo.MantenimientoCorrectivo, error) {
	if err := RequireUsuario(caller); err != nil {
		return repo.MantenimientoCorrectivo{}, err
	}
	if arg.FechaApertura.IsZero() {
		return repo.MantenimientoCorrectivo{}, apperr.Validation("La fecha de apertura es obligatoria")
	}

	var created repo.MantenimientoCorrectivo
	err := s.store.ExecTx(ctx, func(q repo.Querier) error {
		if err := checkSucursal(ctx, q, arg.SucursalID); err != nil {
			return err
		}
		if arg.CuadrillaID != nil {
			if err := checkCuadrilla(ctx, q, *arg.CuadrillaID); err != nil {
				return err
			}
		}
		var err error
		created, err = q.CreateMantenimientoCorrectivo(ctx, arg)
		return err
	})
	if err != nil {
		return repo.MantenimientoCorrectivo{}, storeErr(err, msgCorrectivoNotFound)
	}
	return created, nil
}

// Update valida referencias, sube adjuntos y recién entonces confirma todos
// los cambios en una sola transacción.
func (s *MantenimientoCorrectivoService) Update(ctx context.Context, caller *CallerContext, id int64, in UpdateMantenimientoCorrectivoInput) (repo.MantenimientoCorrectivo, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return repo.MantenimientoCorrectivo{}, err
	}
	current, err := s.store.GetMantenimientoCorrectivo(ctx, id)
	if err != nil {
		return repo.MantenimientoCorrectivo{}, storeErr(err, msgCorrectivoNotFound)
	}

	if p := in.Patch.SucursalID; p != nil && *p != current.SucursalID {
		if err := checkSucursal(ctx, s.store, *p); err != nil {
			return repo.MantenimientoCorrectivo{}, storeErr(err, msgSucursalNotFound)
		}
	}
	if p := in.Patch.CuadrillaID; p != nil && (current.CuadrillaID == nil || *p != *current.CuadrillaID) {
		if err := checkCuadrilla(ctx, s.store, *p); err != nil {
			return repo.MantenimientoCorrectivo{}, storeErr(err, msgCuadrillaNotFound)
		}
	}

	var (
		up          uploaded
		planillaURL *string
		fotosURLs   []string
	)
	if in.Planilla != nil {
		url, err := up.one(ctx, s.uploader, *in.Planilla, attachmentFolder(correctivosFolder, id, "planilla"))
		if err != nil {
			return repo.MantenimientoCorrectivo{}, err
		}
		planillaURL = &url
	}
	if len(in.Fotos) > 0 {
		fotosURLs, err = up.many(ctx, s.uploader, in.Fotos, attachmentFolder(correctivosFolder, id, "fotos"))
		if err != nil {
			compensateStorage(ctx, s.compensator, up.urls, fmt.Sprintf("correctivo %d: subida incompleta", id))
			return repo.MantenimientoCorrectivo{}, err
		}
	}

	var updated repo.MantenimientoCorrectivo
	err = s.store.ExecTx(ctx, func(q repo.Querier) error {
		m, err := q.GetMantenimientoCorrectivo(ctx, id)
		if err != nil {
			return err
		}
		in.Patch.Apply(&m)
		if planillaURL != nil {
			m.Planilla = planillaURL
		}
		if fotosURLs != nil {
			m.Fotos = fotosURLs
		}
		updated, err = q.UpdateMantenimientoCorrectivo(ctx, m)
		return err
	})
	if err != nil {
		compensateStorage(ctx, s.compensator, up.urls, fmt.Sprintf("correctivo %d: commit fallido", id))
		return repo.MantenimientoCorrectivo{}, storeErr(err, msgCorrectivoNotFound)
	}
	return updated, nil
}

func (s *MantenimientoCorrectivoService) Delete(ctx context.Context, caller *CallerContext, id int64) (Mensaje, error) {
	if err := RequireUsuario(caller); err != nil {
		return Mensaje{}, err
	}
	if err := s.store.DeleteMantenimientoCorrectivo(ctx, id); err != nil {
		return Mensaje{}, storeErr(err, msgCorrectivoNotFound)
	}
	return Mensaje{Message: fmt.Sprintf("Mantenimiento correctivo con id %d eliminado", id)}, nil
}

func checkSucursal(ctx context.Context, q repo.Querier, id int64) error {
	_, err := q.GetSucursal(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound(msgSucursalNotFound)
	}
	return err
}

func checkCuadrilla(ctx context.Context, q repo.Querier, id int64) error {
	_, err := q.GetCuadrilla(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound(msgCuadrillaNotFound)
	}
	return err
}
