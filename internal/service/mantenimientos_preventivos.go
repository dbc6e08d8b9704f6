package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/repo"
	"github.com/mantenimiento/api/internal/storage"
)

const (
	msgPreventivoMantNotFound = "Mantenimiento preventivo no encontrado"
	preventivosFolder         = "mantenimientos_preventivos"
	// MaxPlanillas es el máximo de planillas por actualización.
	MaxPlanillas = 3
)

// UpdateMantenimientoPreventivoInput combina el patch con los adjuntos nuevos.
type UpdateMantenimientoPreventivoInput struct {
	Patch     repo.MantenimientoPreventivoPatch
	Planillas []storage.File
	Fotos     []storage.File
}

// MantenimientoPreventivoService gestiona las órdenes programadas.
type MantenimientoPreventivoService struct {
	store       repo.Store
	uploader    storage.Uploader
	compensator Compensator
}

func NewMantenimientoPreventivoService(store repo.Store, uploader storage.Uploader, compensator Compensator) *MantenimientoPreventivoService {
	return &MantenimientoPreventivoService{store: store, uploader: uploader, compensator: compensator}
}

func (s *MantenimientoPreventivoService) List(ctx context.Context, caller *CallerContext) ([]repo.MantenimientoPreventivo, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	items, err := s.store.ListMantenimientosPreventivos(ctx)
	return items, storeErr(err, msgPreventivoMantNotFound)
}

func (s *MantenimientoPreventivoService) Get(ctx context.Context, caller *CallerContext, id int64) (repo.MantenimientoPreventivo, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return repo.MantenimientoPreventivo{}, err
	}
	item, err := s.store.GetMantenimientoPreventivo(ctx, id)
	return item, storeErr(err, msgPreventivoMantNotFound)
}

// Create exige una entrada de catálogo para la sucursal y una cuadrilla existente.
func (s *MantenimientoPreventivoService) Create(ctx context.Context, caller *CallerContext, arg repo.CreateMantenimientoPreventivoParams) (repo.MantenimientoPreventivo, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return repo.MantenimientoPreventivo{}, err
	}
	arg.NombreSucursal = strings.TrimSpace(arg.NombreSucursal)
	if arg.FechaApertura.IsZero() {
		return repo.MantenimientoPreventivo{}, apperr.Validation("La fecha de apertura es obligatoria")
	}

	var created repo.MantenimientoPreventivo
	err := s.store.ExecTx(ctx, func(q repo.Querier) error {
		if err := checkPreventivo(ctx, q, arg.NombreSucursal); err != nil {
			return err
		}
		if err := checkCuadrilla(ctx, q, arg.CuadrillaID); err != nil {
			return err
		}
		var err error
		created, err = q.CreateMantenimientoPreventivo(ctx, arg)
		return err
	})
	if err != nil {
		return repo.MantenimientoPreventivo{}, storeErr(err, msgPreventivoMantNotFound)
	}
	return created, nil
}

// Update sigue el mismo orden que el correctivo: referencias, subidas, commit.
func (s *MantenimientoPreventivoService) Update(ctx context.Context, caller *CallerContext, id int64, in UpdateMantenimientoPreventivoInput) (repo.MantenimientoPreventivo, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return repo.MantenimientoPreventivo{}, err
	}
	if len(in.Planillas) > MaxPlanillas {
		return repo.MantenimientoPreventivo{}, apperr.Validation(fmt.Sprintf("Se admiten como máximo %d planillas", MaxPlanillas))
	}
	current, err := s.store.GetMantenimientoPreventivo(ctx, id)
	if err != nil {
		return repo.MantenimientoPreventivo{}, storeErr(err, msgPreventivoMantNotFound)
	}

	if p := in.Patch.NombreSucursal; p != nil && strings.TrimSpace(*p) != current.NombreSucursal {
		trimmed := strings.TrimSpace(*p)
		in.Patch.NombreSucursal = &trimmed
		if err := checkPreventivo(ctx, s.store, trimmed); err != nil {
			return repo.MantenimientoPreventivo{}, storeErr(err, msgPreventivoNotFound)
		}
	}
	if p := in.Patch.CuadrillaID; p != nil && *p != current.CuadrillaID {
		if err := checkCuadrilla(ctx, s.store, *p); err != nil {
			return repo.MantenimientoPreventivo{}, storeErr(err, msgCuadrillaNotFound)
		}
	}

	var (
		up            uploaded
		planillasURLs []string
		fotosURLs     []string
	)
	if len(in.Planillas) > 0 {
		planillasURLs, err = up.many(ctx, s.uploader, in.Planillas, attachmentFolder(preventivosFolder, id, "planillas"))
		if err != nil {
			compensateStorage(ctx, s.compensator, up.urls, fmt.Sprintf("preventivo %d: subida incompleta", id))
			return repo.MantenimientoPreventivo{}, err
		}
	}
	if len(in.Fotos) > 0 {
		fotosURLs, err = up.many(ctx, s.uploader, in.Fotos, attachmentFolder(preventivosFolder, id, "fotos"))
		if err != nil {
			compensateStorage(ctx, s.compensator, up.urls, fmt.Sprintf("preventivo %d: subida incompleta", id))
			return repo.MantenimientoPreventivo{}, err
		}
	}

	var updated repo.MantenimientoPreventivo
	err = s.store.ExecTx(ctx, func(q repo.Querier) error {
		m, err := q.GetMantenimientoPreventivo(ctx, id)
		if err != nil {
			return err
		}
		in.Patch.Apply(&m)
		if planillasURLs != nil {
			m.Planillas = planillasURLs
		}
		if fotosURLs != nil {
			m.Fotos = fotosURLs
		}
		updated, err = q.UpdateMantenimientoPreventivo(ctx, m)
		return err
	})
	if err != nil {
		compensateStorage(ctx, s.compensator, up.urls, fmt.Sprintf("preventivo %d: commit fallido", id))
		return repo.MantenimientoPreventivo{}, storeErr(err, msgPreventivoMantNotFound)
	}
	return updated, nil
}

func (s *MantenimientoPreventivoService) Delete(ctx context.Context, caller *CallerContext, id int64) (Mensaje, error) {
	if err := RequireUsuario(caller); err != nil {
		return Mensaje{}, err
	}
	if err := s.store.DeleteMantenimientoPreventivo(ctx, id); err != nil {
		return Mensaje{}, storeErr(err, msgPreventivoMantNotFound)
	}
	return Mensaje{Message: fmt.Sprintf("Mantenimiento preventivo con id %d eliminado", id)}, nil
}

func checkPreventivo(ctx context.Context, q repo.Querier, nombreSucursal string) error {
	_, err := q.GetPreventivoByNombreSucursal(ctx, nombreSucursal)
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound(msgPreventivoNotFound)
	}
	return err
}
