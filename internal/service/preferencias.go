package service

import (
	"context"
	"errors"
	"strings"

	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/repo"
)

// Tablas para las que la interfaz guarda columnas visibles.
var preferenciaTablas = map[string]struct{}{
	"sucursales":                 {},
	"cuadrillas":                 {},
	"users":                      {},
	"mantenimientos_preventivos": {},
	"mantenimientos_correctivos": {},
}

// PreferenciaService guarda la selección de columnas de cada caller.
type PreferenciaService struct {
	store repo.Store
}

func NewPreferenciaService(store repo.Store) *PreferenciaService {
	return &PreferenciaService{store: store}
}

// Get devuelve una preferencia vacía si el caller todavía no guardó ninguna.
func (s *PreferenciaService) Get(ctx context.Context, caller *CallerContext, tabla string) (repo.Preferencia, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return repo.Preferencia{}, err
	}
	tabla, err := validTabla(tabla)
	if err != nil {
		return repo.Preferencia{}, err
	}
	p, err := s.store.GetPreferencia(ctx, caller.Subject(), tabla)
	if errors.Is(err, repo.ErrNotFound) {
		return repo.Preferencia{Subject: caller.Subject(), Tabla: tabla, Columnas: []string{}}, nil
	}
	return p, storeErr(err, "Preferencia no encontrada")
}

func (s *PreferenciaService) Save(ctx context.Context, caller *CallerContext, tabla string, columnas []string) (repo.Preferencia, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return repo.Preferencia{}, err
	}
	tabla, err := validTabla(tabla)
	if err != nil {
		return repo.Preferencia{}, err
	}

	clean := make([]string, 0, len(columnas))
	seen := make(map[string]struct{}, len(columnas))
	for _, c := range columnas {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		clean = append(clean, c)
	}

	p, err := s.store.UpsertPreferencia(ctx, repo.Preferencia{Subject: caller.Subject(), Tabla: tabla, Columnas: clean})
	return p, storeErr(err, "Preferencia no encontrada")
}

func validTabla(tabla string) (string, error) {
	tabla = strings.TrimSpace(tabla)
	if _, ok := preferenciaTablas[tabla]; !ok {
		return "", apperr.Validation("Tabla desconocida: " + tabla)
	}
	return tabla, nil
}
