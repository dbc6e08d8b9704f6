package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/identity"
	"github.com/mantenimiento/api/internal/util"
)

// Credentials son los datos de acceso de un usuario o cuadrilla nuevos.
// Con IDToken se reutiliza la cuenta ya autenticada en el proveedor.
type Credentials struct {
	Email    string
	Password string
	IDToken  string
}

// provisioner coordina el proveedor de identidad con los registros locales.
type provisioner struct {
	provider    identity.Provider
	compensator Compensator
}

// acquire obtiene el sujeto del proveedor para las credenciales. created
// indica si la cuenta se creó en esta llamada y debe compensarse si el
// registro local no llega a guardarse.
func (p provisioner) acquire(ctx context.Context, cred Credentials) (subject string, created bool, err error) {
	if token := strings.TrimSpace(cred.IDToken); token != "" {
		id, err := p.provider.VerifyToken(ctx, token)
		if err != nil {
			log.Debug().Err(err).Msg("id_token de alta rechazado")
			return "", false, apperr.Unauthenticated(msgInvalidToken)
		}
		if !strings.EqualFold(id.Email, cred.Email) {
			return "", false, apperr.Validation("El email no coincide con el token")
		}
		if cred.Password != "" {
			if err := p.provider.UpdateIdentity(ctx, id.Subject, nil, &cred.Password); err != nil {
				return "", false, providerErr("update_identity", err)
			}
		}
		return id.Subject, false, nil
	}

	existing, err := p.provider.LookupByEmail(ctx, cred.Email)
	switch {
	case err == nil:
		if err := p.provider.UpdateIdentity(ctx, existing, nil, &cred.Password); err != nil {
			return "", false, providerErr("update_identity", err)
		}
		log.Info().Str("email", cred.Email).Msg("cuenta existente del proveedor reutilizada")
		return existing, false, nil
	case !errors.Is(err, identity.ErrNotFound):
		return "", false, providerErr("lookup_by_email", err)
	}

	subject, err = p.provider.CreateIdentity(ctx, cred.Email, cred.Password)
	if err != nil {
		return "", false, providerErr("create_identity", err)
	}
	return subject, true, nil
}

// sync propaga email y/o contraseña al proveedor. Sin sujeto vinculado se
// busca la cuenta por email y, si hay contraseña, se crea.
func (p provisioner) sync(ctx context.Context, subject *string, email string, newEmail, password *string) (string, error) {
	if subject != nil && *subject != "" {
		if err := p.provider.UpdateIdentity(ctx, *subject, newEmail, password); err != nil {
			return "", providerErr("update_identity", err)
		}
		return *subject, nil
	}

	found, err := p.provider.LookupByEmail(ctx, email)
	switch {
	case err == nil:
		if err := p.provider.UpdateIdentity(ctx, found, newEmail, password); err != nil {
			return "", providerErr("update_identity", err)
		}
		return found, nil
	case !errors.Is(err, identity.ErrNotFound):
		return "", providerErr("lookup_by_email", err)
	}
	if password == nil {
		// Nada que propagar: la cuenta se vinculará en el primer login.
		return "", nil
	}
	target := email
	if newEmail != nil {
		target = *newEmail
	}
	created, err := p.provider.CreateIdentity(ctx, target, *password)
	if err != nil {
		return "", providerErr("create_identity", err)
	}
	return created, nil
}

// release borra la identidad sin bloquear el borrado local; una falla se
// registra y se encola para reintento.
func (p provisioner) release(ctx context.Context, subject *string, reason string) {
	if subject == nil || *subject == "" {
		return
	}
	err := p.provider.DeleteIdentity(ctx, *subject)
	if err == nil || errors.Is(err, identity.ErrNotFound) {
		return
	}
	log.Error().Err(err).Str("subject", *subject).Str("reason", reason).Msg("no se pudo borrar la identidad del proveedor")
	compensateIdentity(ctx, p.compensator, *subject, reason)
}

func validateCredentials(cred Credentials) error {
	if err := util.ValidateEmail(cred.Email); err != nil {
		return apperr.Validation(err.Error())
	}
	if strings.TrimSpace(cred.IDToken) != "" && cred.Password == "" {
		return nil
	}
	if err := util.ValidatePassword(cred.Password); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}

func validatePatchCredentials(email, password *string) error {
	if email != nil {
		if err := util.ValidateEmail(*email); err != nil {
			return apperr.Validation(err.Error())
		}
	}
	if password != nil {
		if err := util.ValidatePassword(*password); err != nil {
			return apperr.Validation(err.Error())
		}
	}
	return nil
}
