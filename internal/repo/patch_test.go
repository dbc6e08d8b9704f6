package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string { return &v }

func TestSucursalPatchEmptyKeepsRecord(t *testing.T) {
	original := Sucursal{ID: 1, Nombre: "B1", Zona: "Norte", Direccion: "X", Superficie: "50m2"}
	updated := original

	SucursalPatch{}.Apply(&updated)

	assert.Equal(t, original, updated)
}

func TestSucursalPatchAppliesOnlyPresentFields(t *testing.T) {
	s := Sucursal{ID: 1, Nombre: "B1", Zona: "Norte", Direccion: "X", Superficie: "50m2"}

	SucursalPatch{Direccion: strPtr("Y")}.Apply(&s)

	assert.Equal(t, "Y", s.Direccion)
	assert.Equal(t, "B1", s.Nombre)
	assert.Equal(t, "Norte", s.Zona)
	assert.Equal(t, "50m2", s.Superficie)
}

func TestPatchApplyTwiceMatchesOnce(t *testing.T) {
	cierre := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cuadrilla := int64(7)
	patch := MantenimientoCorrectivoPatch{
		CuadrillaID: &cuadrilla,
		FechaCierre: &cierre,
		Estado:      strPtr("Solucionado"),
	}

	once := MantenimientoCorrectivo{ID: 3, SucursalID: 1, FechaApertura: cierre.AddDate(0, -1, 0), Fotos: []string{}}
	twice := once

	patch.Apply(&once)
	patch.Apply(&twice)
	patch.Apply(&twice)

	assert.Equal(t, once, twice)
	require.NotNil(t, once.Estado)
	assert.Equal(t, "Solucionado", *once.Estado)
}

func TestPatchDoesNotAliasInput(t *testing.T) {
	cierre := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	patch := MantenimientoPreventivoPatch{FechaCierre: &cierre}

	var m MantenimientoPreventivo
	patch.Apply(&m)
	cierre = cierre.AddDate(1, 0, 0)

	require.NotNil(t, m.FechaCierre)
	assert.Equal(t, 2024, m.FechaCierre.Year())
}

func TestTouchesIdentity(t *testing.T) {
	cases := []struct {
		name  string
		patch UsuarioPatch
		want  bool
	}{
		{name: "vacio", patch: UsuarioPatch{}, want: false},
		{name: "solo nombre", patch: UsuarioPatch{Nombre: strPtr("Ana")}, want: false},
		{name: "email", patch: UsuarioPatch{Email: strPtr("a@test.com")}, want: true},
		{name: "password", patch: UsuarioPatch{Password: strPtr("secreto123")}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.patch.TouchesIdentity())
		})
	}

	assert.True(t, CuadrillaPatch{Email: strPtr("c@test.com")}.TouchesIdentity())
	assert.False(t, CuadrillaPatch{Zona: strPtr("Sur")}.TouchesIdentity())
}

func TestParseRol(t *testing.T) {
	rol, ok := ParseRol("Administrador")
	assert.True(t, ok)
	assert.Equal(t, RolAdministrador, rol)

	rol, ok = ParseRol("Encargado de Mantenimiento")
	assert.True(t, ok)
	assert.Equal(t, RolEncargado, rol)

	_, ok = ParseRol("administrador")
	assert.False(t, ok)
}
