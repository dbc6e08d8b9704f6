package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/repo"
	"github.com/mantenimiento/api/internal/repo/repotest"
)

func newCuadrillaFixture() (*CuadrillaService, *repotest.Store, *stubProvider, *recCompensator) {
	store := newMemStore()
	provider := newStubProvider()
	comp := &recCompensator{}
	return NewCuadrillaService(store, provider, comp), store, provider, comp
}

func cuadrillaInput(email string) CreateCuadrillaInput {
	return CreateCuadrillaInput{
		Nombre:      "Cuadrilla Norte",
		Zona:        "Norte",
		Credentials: Credentials{Email: email, Password: "secreto123"},
	}
}

func TestCuadrillaDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, provider, _ := newCuadrillaFixture()

	c, err := svc.Create(ctx, encargadoCaller(), cuadrillaInput("c@test.com"))
	require.NoError(t, err)
	require.NotNil(t, c.FirebaseUID)
	assert.Equal(t, []string{*c.FirebaseUID}, provider.created)

	_, err = svc.Create(ctx, encargadoCaller(), cuadrillaInput("c@test.com"))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Contains(t, apperr.MessageOf(err), "ya existe")
	assert.Len(t, provider.created, 1)
}

func TestCuadrillaEmailTakenByUsuario(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newCuadrillaFixture()
	_, err := store.CreateUsuario(ctx, repo.CreateUsuarioParams{Nombre: "Ana", Email: "ana@test.com", Rol: repo.RolEncargado})
	require.NoError(t, err)

	_, err = svc.Create(ctx, encargadoCaller(), cuadrillaInput("ANA@test.com"))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCuadrillaCreateReusesProviderAccount(t *testing.T) {
	ctx := context.Background()
	svc, _, provider, _ := newCuadrillaFixture()
	provider.accounts["c@test.com"] = "uid-existente"

	c, err := svc.Create(ctx, encargadoCaller(), cuadrillaInput("c@test.com"))
	require.NoError(t, err)
	assert.Equal(t, "uid-existente", *c.FirebaseUID)
	assert.Empty(t, provider.created)
	assert.Equal(t, []string{"uid-existente"}, provider.updated)
}

func TestCuadrillaCreateWithIDToken(t *testing.T) {
	ctx := context.Background()
	svc, _, provider, _ := newCuadrillaFixture()
	provider.tokens["tok"] = identityFor("uid-tok", "c@test.com")

	c, err := svc.Create(ctx, encargadoCaller(), CreateCuadrillaInput{
		Nombre:      "C",
		Credentials: Credentials{Email: "c@test.com", IDToken: "tok"},
	})
	require.NoError(t, err)
	assert.Equal(t, "uid-tok", *c.FirebaseUID)
	assert.Empty(t, provider.created)

	_, err = svc.Create(ctx, encargadoCaller(), CreateCuadrillaInput{
		Nombre:      "D",
		Credentials: Credentials{Email: "otro@test.com", IDToken: "tok"},
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCuadrillaFailedInsertCompensates(t *testing.T) {
	ctx := context.Background()
	svc, store, provider, comp := newCuadrillaFixture()
	store.Fail["CreateCuadrilla"] = errBoom

	_, err := svc.Create(ctx, encargadoCaller(), cuadrillaInput("c@test.com"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, provider.created, comp.subjects)

	items, err := store.ListCuadrillas(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCuadrillaReusedAccountIsNotCompensated(t *testing.T) {
	ctx := context.Background()
	svc, store, provider, comp := newCuadrillaFixture()
	provider.accounts["c@test.com"] = "uid-existente"
	store.Fail["CreateCuadrilla"] = errBoom

	_, err := svc.Create(ctx, encargadoCaller(), cuadrillaInput("c@test.com"))
	require.Error(t, err)
	assert.Empty(t, comp.subjects)
}

func TestCuadrillaProviderFailure(t *testing.T) {
	ctx := context.Background()
	svc, store, provider, _ := newCuadrillaFixture()
	provider.failCreate = errBoom

	_, err := svc.Create(ctx, encargadoCaller(), cuadrillaInput("c@test.com"))
	assert.Equal(t, apperr.KindExternalProvider, apperr.KindOf(err))
	assert.Equal(t, 0, store.TxRuns)
}

func TestCuadrillaDeleteWithProviderFailure(t *testing.T) {
	ctx := context.Background()
	svc, store, provider, comp := newCuadrillaFixture()

	c, err := svc.Create(ctx, encargadoCaller(), cuadrillaInput("c@test.com"))
	require.NoError(t, err)

	provider.failDelete = errBoom
	msg, err := svc.Delete(ctx, encargadoCaller(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cuadrilla eliminada correctamente", msg.Message)
	assert.Equal(t, []string{*c.FirebaseUID}, comp.subjects)

	_, err = store.GetCuadrilla(ctx, c.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestCuadrillaDeleteWithWorkOrdersKeepsProviderAccount(t *testing.T) {
	ctx := context.Background()
	svc, store, provider, comp := newCuadrillaFixture()

	c, err := svc.Create(ctx, encargadoCaller(), cuadrillaInput("c@test.com"))
	require.NoError(t, err)
	suc, err := store.CreateSucursal(ctx, repo.CreateSucursalParams{Nombre: "Centro", Zona: "Norte"})
	require.NoError(t, err)
	_, err = store.CreateMantenimientoCorrectivo(ctx, repo.CreateMantenimientoCorrectivoParams{
		SucursalID:    suc.ID,
		CuadrillaID:   &c.ID,
		FechaApertura: day("2024-03-01"),
	})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, encargadoCaller(), c.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	assert.Empty(t, provider.deleted)
	assert.Empty(t, comp.subjects)
	assert.Equal(t, *c.FirebaseUID, provider.accounts["c@test.com"])
	_, err = store.GetCuadrilla(ctx, c.ID)
	assert.NoError(t, err)
}

func TestCuadrillaDeleteReleasesIdentityAfterCommit(t *testing.T) {
	ctx := context.Background()
	svc, store, provider, comp := newCuadrillaFixture()

	c, err := svc.Create(ctx, encargadoCaller(), cuadrillaInput("c@test.com"))
	require.NoError(t, err)

	store.Fail["commit"] = errBoom
	_, err = svc.Delete(ctx, encargadoCaller(), c.ID)
	require.Error(t, err)
	assert.Empty(t, provider.deleted)
	assert.Empty(t, comp.subjects)

	delete(store.Fail, "commit")
	_, err = svc.Delete(ctx, encargadoCaller(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{*c.FirebaseUID}, provider.deleted)
}

func TestCuadrillaUpdateSyncsProvider(t *testing.T) {
	ctx := context.Background()
	svc, _, provider, _ := newCuadrillaFixture()

	c, err := svc.Create(ctx, encargadoCaller(), cuadrillaInput("c@test.com"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, encargadoCaller(), c.ID, repo.CuadrillaPatch{Email: ptr(" Nueva@Test.com ")})
	require.NoError(t, err)
	assert.Equal(t, "nueva@test.com", updated.Email)
	assert.Equal(t, *c.FirebaseUID, provider.accounts["nueva@test.com"])

	provider.failUpdate = errBoom
	_, err = svc.Update(ctx, encargadoCaller(), c.ID, repo.CuadrillaPatch{Nombre: ptr("Otra"), Password: ptr("otroSecreto")})
	assert.Equal(t, apperr.KindExternalProvider, apperr.KindOf(err))

	got, err := svc.Get(ctx, cuadrillaCaller(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cuadrilla Norte", got.Nombre)
}

func TestCuadrillaUpdateWithoutSubjectLinksAccount(t *testing.T) {
	ctx := context.Background()
	svc, store, provider, _ := newCuadrillaFixture()
	c, err := store.CreateCuadrilla(ctx, repo.CreateCuadrillaParams{Nombre: "C", Email: "c@test.com"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, encargadoCaller(), c.ID, repo.CuadrillaPatch{Email: ptr("d@test.com"), Password: ptr("secreto123")})
	require.NoError(t, err)
	require.NotNil(t, updated.FirebaseUID)
	assert.Equal(t, *updated.FirebaseUID, provider.accounts["d@test.com"])
}

func TestCuadrillaAuthorization(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newCuadrillaFixture()

	_, err := svc.Create(ctx, cuadrillaCaller(), cuadrillaInput("c@test.com"))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.Delete(ctx, cuadrillaCaller(), 1)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.List(ctx, nil)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	items, err := svc.List(ctx, cuadrillaCaller())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCuadrillaValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, provider, _ := newCuadrillaFixture()

	in := cuadrillaInput("no-es-email")
	_, err := svc.Create(ctx, encargadoCaller(), in)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	in = cuadrillaInput("c@test.com")
	in.Password = "123"
	_, err = svc.Create(ctx, encargadoCaller(), in)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Empty(t, provider.created)
}
