package identity

import (
	"context"

	"github.com/mantenimiento/api/internal/metrics"
)

// Instrumented cuenta las llamadas de escritura al proveedor decorado.
type Instrumented struct {
	Provider
}

func (p Instrumented) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	subject, err := p.Provider.CreateIdentity(ctx, email, password)
	metrics.ProviderCalls.WithLabelValues("create", metrics.Result(err)).Inc()
	return subject, err
}

func (p Instrumented) UpdateIdentity(ctx context.Context, subject string, email, password *string) error {
	err := p.Provider.UpdateIdentity(ctx, subject, email, password)
	metrics.ProviderCalls.WithLabelValues("update", metrics.Result(err)).Inc()
	return err
}

func (p Instrumented) DeleteIdentity(ctx context.Context, subject string) error {
	err := p.Provider.DeleteIdentity(ctx, subject)
	metrics.ProviderCalls.WithLabelValues("delete", metrics.Result(err)).Inc()
	return err
}

func (p Instrumented) LookupByEmail(ctx context.Context, email string) (string, error) {
	subject, err := p.Provider.LookupByEmail(ctx, email)
	metrics.ProviderCalls.WithLabelValues("lookup", metrics.Result(err)).Inc()
	return subject, err
}

func (p Instrumented) Login(ctx context.Context, email, password string) (Token, error) {
	authenticator, ok := p.Provider.(PasswordAuthenticator)
	if !ok {
		return Token{}, ErrLoginUnsupported
	}
	return authenticator.Login(ctx, email, password)
}
