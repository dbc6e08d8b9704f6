package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/repo"
	"github.com/mantenimiento/api/internal/repo/repotest"
	"github.com/mantenimiento/api/internal/storage"
)

type mantFixture struct {
	store      *repotest.Store
	uploader   *stubUploader
	comp       *recCompensator
	correctivo *MantenimientoCorrectivoService
	preventivo *MantenimientoPreventivoService
	sucursal   repo.Sucursal
	cuadrilla  repo.Cuadrilla
}

func newMantFixture(t *testing.T) *mantFixture {
	t.Helper()
	ctx := context.Background()
	f := &mantFixture{store: newMemStore(), uploader: &stubUploader{}, comp: &recCompensator{}}
	f.correctivo = NewMantenimientoCorrectivoService(f.store, f.uploader, f.comp)
	f.preventivo = NewMantenimientoPreventivoService(f.store, f.uploader, f.comp)

	var err error
	f.sucursal, err = f.store.CreateSucursal(ctx, repo.CreateSucursalParams{Nombre: "Centro", Zona: "Norte"})
	require.NoError(t, err)
	f.cuadrilla, err = f.store.CreateCuadrilla(ctx, repo.CreateCuadrillaParams{Nombre: "C1", Zona: "Norte", Email: "c1@test.com"})
	require.NoError(t, err)
	_, err = f.store.CreatePreventivo(ctx, repo.CreatePreventivoParams{SucursalID: f.sucursal.ID, NombreSucursal: "Centro", Frecuencia: "Mensual"})
	require.NoError(t, err)
	return f
}

func (f *mantFixture) newCorrectivo(t *testing.T) repo.MantenimientoCorrectivo {
	t.Helper()
	m, err := f.correctivo.Create(context.Background(), encargadoCaller(), repo.CreateMantenimientoCorrectivoParams{
		SucursalID:    f.sucursal.ID,
		CuadrillaID:   &f.cuadrilla.ID,
		FechaApertura: day("2024-01-10"),
		Incidente:     ptr("Pérdida de agua"),
	})
	require.NoError(t, err)
	return m
}

func TestCorrectivoCreateMissingSucursal(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)

	_, err := f.correctivo.Create(ctx, encargadoCaller(), repo.CreateMantenimientoCorrectivoParams{
		SucursalID:    999,
		FechaApertura: day("2024-01-10"),
	})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Sucursal no encontrada", apperr.MessageOf(err))

	_, err = f.correctivo.Create(ctx, encargadoCaller(), repo.CreateMantenimientoCorrectivoParams{
		SucursalID:    f.sucursal.ID,
		CuadrillaID:   ptr(int64(999)),
		FechaApertura: day("2024-01-10"),
	})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	items, err := f.store.ListMantenimientosCorrectivos(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCorrectivoAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)
	m := f.newCorrectivo(t)

	_, err := f.correctivo.Create(ctx, cuadrillaCaller(), repo.CreateMantenimientoCorrectivoParams{SucursalID: f.sucursal.ID, FechaApertura: day("2024-01-10")})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = f.correctivo.Delete(ctx, cuadrillaCaller(), m.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	updated, err := f.correctivo.Update(ctx, cuadrillaCaller(), m.ID, UpdateMantenimientoCorrectivoInput{
		Patch: repo.MantenimientoCorrectivoPatch{Estado: ptr("En curso")},
	})
	require.NoError(t, err)
	assert.Equal(t, "En curso", *updated.Estado)

	_, err = f.correctivo.Get(ctx, nil, m.ID)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestCorrectivoUpdateUploadsAttachments(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)
	m := f.newCorrectivo(t)

	updated, err := f.correctivo.Update(ctx, encargadoCaller(), m.ID, UpdateMantenimientoCorrectivoInput{
		Patch:    repo.MantenimientoCorrectivoPatch{FechaCierre: ptr(day("2024-01-20"))},
		Planilla: ptr(pdf("planilla.pdf")),
		Fotos:    []storage.File{pdf("a.jpg"), pdf("b.jpg")},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Planilla)
	assert.Contains(t, *updated.Planilla, "mantenimientos_correctivos/")
	assert.Contains(t, *updated.Planilla, "/planilla/")
	assert.Len(t, updated.Fotos, 2)
	assert.Equal(t, day("2024-01-20"), *updated.FechaCierre)

	replaced, err := f.correctivo.Update(ctx, encargadoCaller(), m.ID, UpdateMantenimientoCorrectivoInput{
		Fotos: []storage.File{pdf("c.jpg")},
	})
	require.NoError(t, err)
	assert.Len(t, replaced.Fotos, 1)
	assert.Equal(t, updated.Planilla, replaced.Planilla)
	assert.Empty(t, f.comp.urls)
}

func TestCorrectivoReferenceFailureSkipsUploads(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)
	m := f.newCorrectivo(t)

	_, err := f.correctivo.Update(ctx, encargadoCaller(), m.ID, UpdateMantenimientoCorrectivoInput{
		Patch:    repo.MantenimientoCorrectivoPatch{SucursalID: ptr(int64(999))},
		Planilla: ptr(pdf("planilla.pdf")),
	})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Empty(t, f.uploader.calls)

	_, err = f.correctivo.Update(ctx, encargadoCaller(), 999, UpdateMantenimientoCorrectivoInput{Planilla: ptr(pdf("p.pdf"))})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Empty(t, f.uploader.calls)
}

func TestCorrectivoUploadFailureCommitsNothing(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)
	m := f.newCorrectivo(t)
	f.uploader.fail = errBoom

	_, err := f.correctivo.Update(ctx, encargadoCaller(), m.ID, UpdateMantenimientoCorrectivoInput{
		Patch:    repo.MantenimientoCorrectivoPatch{Estado: ptr("Solucionado")},
		Planilla: ptr(pdf("planilla.pdf")),
	})
	assert.Equal(t, apperr.KindExternalProvider, apperr.KindOf(err))

	got, err := f.store.GetMantenimientoCorrectivo(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestCorrectivoCommitFailureCompensatesUploads(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)
	m := f.newCorrectivo(t)
	f.store.Fail["UpdateMantenimientoCorrectivo"] = errBoom

	_, err := f.correctivo.Update(ctx, encargadoCaller(), m.ID, UpdateMantenimientoCorrectivoInput{
		Patch:    repo.MantenimientoCorrectivoPatch{Estado: ptr("Solucionado")},
		Planilla: ptr(pdf("planilla.pdf")),
		Fotos:    []storage.File{pdf("a.jpg")},
	})
	require.Error(t, err)
	assert.Len(t, f.comp.urls, 2)

	got, err := f.store.GetMantenimientoCorrectivo(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Estado)
	assert.Nil(t, got.Planilla)
}

func TestCorrectivoPartialBatchCompensatesUploaded(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)
	m := f.newCorrectivo(t)
	f.uploader.failOn = "b.jpg"

	_, err := f.correctivo.Update(ctx, encargadoCaller(), m.ID, UpdateMantenimientoCorrectivoInput{
		Planilla: ptr(pdf("planilla.pdf")),
		Fotos:    []storage.File{pdf("a.jpg"), pdf("b.jpg")},
	})
	assert.Equal(t, apperr.KindExternalProvider, apperr.KindOf(err))

	require.Len(t, f.comp.urls, 2)
	assert.Contains(t, f.comp.urls[0], "planilla.pdf")
	assert.Contains(t, f.comp.urls[1], "a.jpg")

	got, err := f.store.GetMantenimientoCorrectivo(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestPreventivoPartialPlanillasCompensatesUploaded(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)
	m, err := f.preventivo.Create(ctx, encargadoCaller(), repo.CreateMantenimientoPreventivoParams{
		NombreSucursal: "Centro",
		Frecuencia:     "Mensual",
		CuadrillaID:    f.cuadrilla.ID,
		FechaApertura:  day("2024-02-01"),
	})
	require.NoError(t, err)
	f.uploader.failOn = "p2.pdf"

	_, err = f.preventivo.Update(ctx, encargadoCaller(), m.ID, UpdateMantenimientoPreventivoInput{
		Planillas: []storage.File{pdf("p1.pdf"), pdf("p2.pdf")},
	})
	assert.Equal(t, apperr.KindExternalProvider, apperr.KindOf(err))

	require.Len(t, f.comp.urls, 1)
	assert.Contains(t, f.comp.urls[0], "p1.pdf")
}

func TestCorrectivoWithoutBucket(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)
	m := f.newCorrectivo(t)
	svc := NewMantenimientoCorrectivoService(f.store, storage.NoopUploader{}, f.comp)

	_, err := svc.Update(ctx, encargadoCaller(), m.ID, UpdateMantenimientoCorrectivoInput{Planilla: ptr(pdf("p.pdf"))})
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))

	updated, err := svc.Update(ctx, encargadoCaller(), m.ID, UpdateMantenimientoCorrectivoInput{
		Patch: repo.MantenimientoCorrectivoPatch{Prioridad: ptr("Alta")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alta", *updated.Prioridad)
}

func TestCorrectivoDelete(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)
	m := f.newCorrectivo(t)

	msg, err := f.correctivo.Delete(ctx, encargadoCaller(), m.ID)
	require.NoError(t, err)
	assert.Contains(t, msg.Message, "eliminado")

	_, err = f.correctivo.Get(ctx, encargadoCaller(), m.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestPreventivoMantRequiresCatalogEntry(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)

	_, err := f.preventivo.Create(ctx, cuadrillaCaller(), repo.CreateMantenimientoPreventivoParams{
		NombreSucursal: "Desconocida",
		Frecuencia:     "Mensual",
		CuadrillaID:    f.cuadrilla.ID,
		FechaApertura:  day("2024-02-01"),
	})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.preventivo.Create(ctx, cuadrillaCaller(), repo.CreateMantenimientoPreventivoParams{
		NombreSucursal: "Centro",
		Frecuencia:     "Mensual",
		CuadrillaID:    999,
		FechaApertura:  day("2024-02-01"),
	})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	m, err := f.preventivo.Create(ctx, cuadrillaCaller(), repo.CreateMantenimientoPreventivoParams{
		NombreSucursal: " Centro ",
		Frecuencia:     "Mensual",
		CuadrillaID:    f.cuadrilla.ID,
		FechaApertura:  day("2024-02-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Centro", m.NombreSucursal)
	assert.Empty(t, m.Planillas)
}

func TestPreventivoMantPlanillas(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)
	m, err := f.preventivo.Create(ctx, encargadoCaller(), repo.CreateMantenimientoPreventivoParams{
		NombreSucursal: "Centro",
		Frecuencia:     "Mensual",
		CuadrillaID:    f.cuadrilla.ID,
		FechaApertura:  day("2024-02-01"),
	})
	require.NoError(t, err)

	tooMany := []storage.File{pdf("1.pdf"), pdf("2.pdf"), pdf("3.pdf"), pdf("4.pdf")}
	_, err = f.preventivo.Update(ctx, encargadoCaller(), m.ID, UpdateMantenimientoPreventivoInput{Planillas: tooMany})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Empty(t, f.uploader.calls)

	updated, err := f.preventivo.Update(ctx, encargadoCaller(), m.ID, UpdateMantenimientoPreventivoInput{
		Patch:     repo.MantenimientoPreventivoPatch{FechaCierre: ptr(day("2024-02-05"))},
		Planillas: []storage.File{pdf("1.pdf"), pdf("2.pdf")},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Planillas, 2)
	assert.Contains(t, updated.Planillas[0], "mantenimientos_preventivos/")
	assert.Empty(t, updated.Fotos)
}

func TestPreventivoMantCommitFailure(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)
	m, err := f.preventivo.Create(ctx, encargadoCaller(), repo.CreateMantenimientoPreventivoParams{
		NombreSucursal: "Centro",
		Frecuencia:     "Mensual",
		CuadrillaID:    f.cuadrilla.ID,
		FechaApertura:  day("2024-02-01"),
	})
	require.NoError(t, err)
	f.store.Fail["commit"] = errBoom

	_, err = f.preventivo.Update(ctx, encargadoCaller(), m.ID, UpdateMantenimientoPreventivoInput{
		Fotos: []storage.File{pdf("a.jpg"), pdf("b.jpg")},
	})
	require.Error(t, err)
	assert.Len(t, f.comp.urls, 2)

	delete(f.store.Fail, "commit")
	got, err := f.preventivo.Get(ctx, encargadoCaller(), m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Fotos)
}

func TestPreventivoMantDeleteRequiresUsuario(t *testing.T) {
	ctx := context.Background()
	f := newMantFixture(t)

	_, err := f.preventivo.Delete(ctx, cuadrillaCaller(), 1)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = f.preventivo.Delete(ctx, encargadoCaller(), 999)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
