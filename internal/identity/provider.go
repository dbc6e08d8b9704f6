package identity

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indica que el proveedor no tiene una cuenta para el dato buscado.
	ErrNotFound = errors.New("identidad no encontrada")
	// ErrEmailExists indica que ya hay una cuenta con ese email en el proveedor.
	ErrEmailExists = errors.New("el email ya tiene una cuenta")
	// ErrInvalidToken agrupa cualquier falla de verificación de token.
	ErrInvalidToken = errors.New("token inválido")
	// ErrLoginUnsupported indica que el proveedor no emite tokens con contraseña.
	ErrLoginUnsupported = errors.New("el proveedor no admite login con contraseña")
)

// Identity es el resultado de verificar un token.
type Identity struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
}

// Provider es el proveedor externo de identidad.
type Provider interface {
	VerifyToken(ctx context.Context, token string) (Identity, error)
	CreateIdentity(ctx context.Context, email, password string) (string, error)
	// UpdateIdentity sólo propaga los argumentos no nil.
	UpdateIdentity(ctx context.Context, subject string, email, password *string) error
	DeleteIdentity(ctx context.Context, subject string) error
	LookupByEmail(ctx context.Context, email string) (string, error)
}

// PasswordAuthenticator lo implementan los proveedores que emiten tokens propios.
type PasswordAuthenticator interface {
	Login(ctx context.Context, email, password string) (Token, error)
}
