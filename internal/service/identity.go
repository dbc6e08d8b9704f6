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
	msgInvalidToken = "Token inválido"
	msgUnregistered = "Usuario no registrado"
)

// IdentityService resuelve tokens del proveedor a registros locales.
type IdentityService struct {
	store    repo.Store
	provider identity.Provider
}

func NewIdentityService(store repo.Store, provider identity.Provider) *IdentityService {
	return &IdentityService{store: store, provider: provider}
}

// ResolveCaller verifica el token y devuelve el usuario o la cuadrilla dueña
// del email. Si el sujeto del proveedor cambió se actualiza el registro local.
func (s *IdentityService) ResolveCaller(ctx context.Context, token string) (*CallerContext, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperr.Unauthenticated(msgAuthRequired)
	}

	id, err := s.provider.VerifyToken(ctx, token)
	if err != nil {
		log.Debug().Err(err).Msg("verificación de token rechazada")
		return nil, apperr.Unauthenticated(msgInvalidToken)
	}

	var caller *CallerContext
	err = s.store.ExecTx(ctx, func(q repo.Querier) error {
		var lookupErr error
		caller, lookupErr = linkCaller(ctx, q, id)
		return lookupErr
	})
	if err != nil {
		return nil, storeErr(err, msgUnregistered)
	}
	return caller, nil
}

// Verify es el login explícito: un email sin registro local es Forbidden.
func (s *IdentityService) Verify(ctx context.Context, token string) (*CallerContext, error) {
	caller, err := s.ResolveCaller(ctx, token)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Message == msgUnregistered {
			return nil, apperr.Forbidden(msgUnregistered)
		}
		return nil, err
	}
	return caller, nil
}

// Login emite un token cuando el proveedor maneja contraseñas propias.
func (s *IdentityService) Login(ctx context.Context, email, password string) (identity.Token, error) {
	authenticator, ok := s.provider.(identity.PasswordAuthenticator)
	if !ok {
		return identity.Token{}, apperr.Validation("El proveedor de identidad no admite login con contraseña")
	}
	token, err := authenticator.Login(ctx, strings.TrimSpace(email), password)
	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, identity.ErrBadCredentials):
		return identity.Token{}, apperr.Unauthenticated("Credenciales inválidas")
	case errors.Is(err, identity.ErrLoginUnsupported):
		return identity.Token{}, apperr.Validation("El proveedor de identidad no admite login con contraseña")
	}
	return identity.Token{}, providerErr("login", err)
}

func linkCaller(ctx context.Context, q repo.Querier, id identity.Identity) (*CallerContext, error) {
	u, err := q.GetUsuarioByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if !sameSubject(u.FirebaseUID, id.Subject) {
			if err := q.SetUsuarioFirebaseUID(ctx, u.ID, id.Subject); err != nil {
				return nil, err
			}
			u.FirebaseUID = &id.Subject
			log.Info().Int64("usuario_id", u.ID).Msg("sujeto del proveedor vinculado")
		}
		return UsuarioCaller(u), nil
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}

	c, err := q.GetCuadrillaByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if !sameSubject(c.FirebaseUID, id.Subject) {
			if err := q.SetCuadrillaFirebaseUID(ctx, c.ID, id.Subject); err != nil {
				return nil, err
			}
			c.FirebaseUID = &id.Subject
			log.Info().Int64("cuadrilla_id", c.ID).Msg("sujeto del proveedor vinculado")
		}
		return CuadrillaCaller(c), nil
	case errors.Is(err, repo.ErrNotFound):
		return nil, apperr.Unauthenticated(msgUnregistered)
	}
	return nil, err
}

func sameSubject(stored *string, subject string) bool {
	return stored != nil && *stored == subject
}
