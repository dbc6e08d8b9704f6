package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/identity"
	"github.com/mantenimiento/api/internal/repo"
)

func TestResolveCallerUnknownEmail(t *testing.T) {
	store := newMemStore()
	provider := newStubProvider()
	provider.tokens["tok"] = identity.Identity{Subject: "uid-a", Email: "a@test.com"}

	svc := NewIdentityService(store, provider)
	_, err := svc.ResolveCaller(context.Background(), "tok")

	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestResolveCallerInvalidToken(t *testing.T) {
	svc := NewIdentityService(newMemStore(), newStubProvider())

	_, err := svc.ResolveCaller(context.Background(), "nope")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	assert.Equal(t, "Token inválido", apperr.MessageOf(err))

	_, err = svc.ResolveCaller(context.Background(), "  ")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestResolveCallerLinksUsuarioSubject(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	u, err := store.CreateUsuario(ctx, repo.CreateUsuarioParams{Nombre: "Ana", Email: "ana@test.com", Rol: repo.RolEncargado})
	require.NoError(t, err)

	provider := newStubProvider()
	provider.tokens["tok"] = identity.Identity{Subject: "uid-ana", Email: "ana@test.com"}

	caller, err := NewIdentityService(store, provider).ResolveCaller(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, CallerUsuario, caller.Kind)
	assert.Equal(t, u.ID, caller.ID())

	stored, err := store.GetUsuario(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.FirebaseUID)
	assert.Equal(t, "uid-ana", *stored.FirebaseUID)
}

func TestResolveCallerRelinksChangedSubject(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	c, err := store.CreateCuadrilla(ctx, repo.CreateCuadrillaParams{Nombre: "C1", Email: "c1@test.com", FirebaseUID: ptr("viejo")})
	require.NoError(t, err)

	provider := newStubProvider()
	provider.tokens["tok"] = identity.Identity{Subject: "nuevo", Email: "c1@test.com"}

	caller, err := NewIdentityService(store, provider).ResolveCaller(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, CallerCuadrilla, caller.Kind)

	stored, err := store.GetCuadrilla(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "nuevo", *stored.FirebaseUID)
}

func TestResolveCallerPrefersUsuario(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	_, err := store.CreateCuadrilla(ctx, repo.CreateCuadrillaParams{Nombre: "C1", Email: "x@test.com"})
	require.NoError(t, err)
	_, err = store.CreateUsuario(ctx, repo.CreateUsuarioParams{Nombre: "X", Email: "x@test.com", Rol: repo.RolAdministrador})
	require.NoError(t, err)

	provider := newStubProvider()
	provider.tokens["tok"] = identity.Identity{Subject: "s", Email: "x@test.com"}

	caller, err := NewIdentityService(store, provider).ResolveCaller(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, CallerUsuario, caller.Kind)
}

func TestVerifyUnregisteredIsForbidden(t *testing.T) {
	provider := newStubProvider()
	provider.tokens["tok"] = identity.Identity{Subject: "s", Email: "nadie@test.com"}

	_, err := NewIdentityService(newMemStore(), provider).Verify(context.Background(), "tok")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Equal(t, "Usuario no registrado", apperr.MessageOf(err))
}

func TestLoginUnsupportedProvider(t *testing.T) {
	_, err := NewIdentityService(newMemStore(), newStubProvider()).Login(context.Background(), "a@test.com", "secreto")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
