package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mantenimiento/api/internal/auth"
	"github.com/mantenimiento/api/internal/repo"
)

// ErrBadCredentials se devuelve cuando email o contraseña no coinciden.
var ErrBadCredentials = errors.New("credenciales inválidas")

// Token es un token emitido por el proveedor local.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AccountStore es el subconjunto de repo.Queries que usa el proveedor local.
type AccountStore interface {
	GetCuentaLocal(ctx context.Context, subjectID string) (repo.CuentaLocal, error)
	GetCuentaLocalByEmail(ctx context.Context, email string) (repo.CuentaLocal, error)
	CreateCuentaLocal(ctx context.Context, subjectID, email, passwordHash string) (repo.CuentaLocal, error)
	UpdateCuentaLocal(ctx context.Context, subjectID string, email, passwordHash *string) error
	DeleteCuentaLocal(ctx context.Context, subjectID string) error
}

// LocalProvider guarda las cuentas en la propia base y firma tokens HS256.
// Sirve para desarrollo y para despliegues sin Firebase.
type LocalProvider struct {
	accounts AccountStore
	jwt      *auth.JWTManager
}

func NewLocalProvider(accounts AccountStore, jwt *auth.JWTManager) *LocalProvider {
	return &LocalProvider{accounts: accounts, jwt: jwt}
}

func (p *LocalProvider) VerifyToken(ctx context.Context, token string) (Identity, error) {
	claims, err := p.jwt.ParseAndValidate(token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	// La cuenta puede haber sido borrada después de emitir el token.
	cuenta, err := p.accounts.GetCuentaLocal(ctx, claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Identity{Subject: cuenta.SubjectID, Email: cuenta.Email}, nil
}

func (p *LocalProvider) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("contraseña obligatoria")
	}
	hash, err := auth.Hash(password)
	if err != nil {
		return "", err
	}
	cuenta, err := p.accounts.CreateCuentaLocal(ctx, uuid.NewString(), email, hash)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return "", ErrEmailExists
		}
		return "", err
	}
	return cuenta.SubjectID, nil
}

func (p *LocalProvider) UpdateIdentity(ctx context.Context, subject string, email, password *string) error {
	if email == nil && password == nil {
		return nil
	}
	var hash *string
	if password != nil {
		h, err := auth.Hash(*password)
		if err != nil {
			return err
		}
		hash = &h
	}
	err := p.accounts.UpdateCuentaLocal(ctx, subject, email, hash)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrDuplicate):
		return ErrEmailExists
	}
	return err
}

func (p *LocalProvider) DeleteIdentity(ctx context.Context, subject string) error {
	if err := p.accounts.DeleteCuentaLocal(ctx, subject); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (p *LocalProvider) LookupByEmail(ctx context.Context, email string) (string, error) {
	cuenta, err := p.accounts.GetCuentaLocalByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return cuenta.SubjectID, nil
}

// Login valida la contraseña y emite un token firmado.
func (p *LocalProvider) Login(ctx context.Context, email, password string) (Token, error) {
	cuenta, err := p.accounts.GetCuentaLocalByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Token{}, ErrBadCredentials
		}
		return Token{}, err
	}
	ok, err := auth.Verify(password, cuenta.PasswordHash)
	if err != nil {
		return Token{}, err
	}
	if !ok {
		return Token{}, ErrBadCredentials
	}
	signed, expires, err := p.jwt.GenerateToken(cuenta.SubjectID, cuenta.Email)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, ExpiresAt: expires}, nil
}

var (
	_ Provider              = (*LocalProvider)(nil)
	_ PasswordAuthenticator = (*LocalProvider)(nil)
)
