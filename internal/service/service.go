package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/metrics"
	"github.com/mantenimiento/api/internal/repo"
)

// Mensaje es la confirmación devuelta por las operaciones de borrado.
type Mensaje struct {
	Message string `json:"message"`
}

// Compensator encola acciones que deshacen efectos externos huérfanos.
type Compensator interface {
	// EnqueueIdentityDelete reintenta borrar una identidad en el proveedor.
	EnqueueIdentityDelete(ctx context.Context, subject, reason string) error
	// EnqueueStorageDelete borra objetos subidos cuyo commit falló.
	EnqueueStorageDelete(ctx context.Context, urls []string, reason string) error
}

func compensateIdentity(ctx context.Context, c Compensator, subject, reason string) {
	if c == nil || subject == "" {
		return
	}
	metrics.Compensations.WithLabelValues("identity_delete").Inc()
	if err := c.EnqueueIdentityDelete(ctx, subject, reason); err != nil {
		log.Error().Err(err).Str("subject", subject).Str("reason", reason).Msg("no se pudo encolar borrado de identidad")
	}
}

func compensateStorage(ctx context.Context, c Compensator, urls []string, reason string) {
	if c == nil || len(urls) == 0 {
		return
	}
	metrics.Compensations.WithLabelValues("storage_delete").Inc()
	if err := c.EnqueueStorageDelete(ctx, urls, reason); err != nil {
		log.Error().Err(err).Strs("urls", urls).Str("reason", reason).Msg("no se pudo encolar borrado de objetos")
	}
}

// storeErr traduce errores del repositorio. Los *apperr.Error pasan intactos.
func storeErr(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, repo.ErrDuplicate):
		return apperr.Wrap(apperr.KindConflict, "El registro ya existe", err)
	case errors.Is(err, repo.ErrInUse):
		return apperr.Wrap(apperr.KindConflict, "El registro está en uso", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperr.Internal("operación cancelada", err)
	}
	return apperr.Internal("error de base de datos", err)
}

// providerErr registra la falla del colaborador y la eleva como ExternalProvider.
func providerErr(op string, err error) error {
	if apperr.KindOf(err) == apperr.KindConfiguration {
		return err
	}
	log.Error().Err(err).Str("op", op).Msg("falla del colaborador externo")
	return apperr.Provider("Error del proveedor externo ("+op+")", err)
}
