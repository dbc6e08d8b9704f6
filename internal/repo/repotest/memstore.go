// Package repotest ofrece un repo.Store en memoria para tests de servicios y handlers.
package repotest

import (
	"context"
	"sort"
	"strings"

	"github.com/mantenimiento/api/internal/repo"
)

type memData struct {
	zonas       map[int64]repo.Zona
	sucursales  map[int64]repo.Sucursal
	cuadrillas  map[int64]repo.Cuadrilla
	usuarios    map[int64]repo.Usuario
	preventivos map[int64]repo.Preventivo
	mPrev       map[int64]repo.MantenimientoPreventivo
	mCorr       map[int64]repo.MantenimientoCorrectivo
	prefs       map[string]repo.Preferencia
	nextID      int64
}

func (d memData) clone() memData {
	c := memData{
		zonas:       map[int64]repo.Zona{},
		sucursales:  map[int64]repo.Sucursal{},
		cuadrillas:  map[int64]repo.Cuadrilla{},
		usuarios:    map[int64]repo.Usuario{},
		preventivos: map[int64]repo.Preventivo{},
		mPrev:       map[int64]repo.MantenimientoPreventivo{},
		mCorr:       map[int64]repo.MantenimientoCorrectivo{},
		prefs:       map[string]repo.Preferencia{},
		nextID:      d.nextID,
	}
	for k, v := range d.zonas {
		c.zonas[k] = v
	}
	for k, v := range d.sucursales {
		c.sucursales[k] = v
	}
	for k, v := range d.cuadrillas {
		c.cuadrillas[k] = v
	}
	for k, v := range d.usuarios {
		c.usuarios[k] = v
	}
	for k, v := range d.preventivos {
		c.preventivos[k] = v
	}
	for k, v := range d.mPrev {
		v.Planillas = append([]string{}, v.Planillas...)
		v.Fotos = append([]string{}, v.Fotos...)
		c.mPrev[k] = v
	}
	for k, v := range d.mCorr {
		v.Fotos = append([]string{}, v.Fotos...)
		c.mCorr[k] = v
	}
	for k, v := range d.prefs {
		c.prefs[k] = v
	}
	return c
}

// Store es un repo.Store en memoria para tests. ExecTx restaura la copia
// previa si fn falla, igual que un rollback.
//
// Fail inyecta errores por nombre de método; la clave "commit" hace fallar
// ExecTx después de fn.
type Store struct {
	data   memData
	Fail   map[string]error
	TxRuns int
}

func New() *Store {
	return &Store{data: memData{}.clone(), Fail: map[string]error{}}
}

func (m *Store) ExecTx(ctx context.Context, fn func(q repo.Querier) error) error {
	m.TxRuns++
	snapshot := m.data.clone()
	if err := fn(m); err != nil {
		m.data = snapshot
		return err
	}
	if err := m.Fail["commit"]; err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

func (m *Store) next() int64 {
	m.data.nextID++
	return m.data.nextID
}

func sortedKeys[T any](items map[int64]T) []int64 {
	keys := make([]int64, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (m *Store) ListZonas(ctx context.Context) ([]repo.Zona, error) {
	out := []repo.Zona{}
	for _, k := range sortedKeys(m.data.zonas) {
		out = append(out, m.data.zonas[k])
	}
	return out, nil
}

func (m *Store) GetZona(ctx context.Context, id int64) (repo.Zona, error) {
	z, ok := m.data.zonas[id]
	if !ok {
		return repo.Zona{}, repo.ErrNotFound
	}
	return z, nil
}

func (m *Store) GetZonaByNombre(ctx context.Context, nombre string) (repo.Zona, error) {
	for _, z := range m.data.zonas {
		if z.Nombre == nombre {
			return z, nil
		}
	}
	return repo.Zona{}, repo.ErrNotFound
}

func (m *Store) CreateZona(ctx context.Context, nombre string) (repo.Zona, error) {
	if _, err := m.GetZonaByNombre(ctx, nombre); err == nil {
		return repo.Zona{}, repo.ErrDuplicate
	}
	z := repo.Zona{ID: m.next(), Nombre: nombre}
	m.data.zonas[z.ID] = z
	return z, nil
}

func (m *Store) DeleteZona(ctx context.Context, id int64) error {
	if _, ok := m.data.zonas[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.data.zonas, id)
	return nil
}

func (m *Store) CountZonaUsage(ctx context.Context, nombre string) (int64, error) {
	var n int64
	for _, s := range m.data.sucursales {
		if s.Zona == nombre {
			n++
		}
	}
	for _, c := range m.data.cuadrillas {
		if c.Zona == nombre {
			n++
		}
	}
	return n, nil
}

func (m *Store) ListSucursales(ctx context.Context) ([]repo.Sucursal, error) {
	out := []repo.Sucursal{}
	for _, k := range sortedKeys(m.data.sucursales) {
		out = append(out, m.data.sucursales[k])
	}
	return out, nil
}

func (m *Store) GetSucursal(ctx context.Context, id int64) (repo.Sucursal, error) {
	s, ok := m.data.sucursales[id]
	if !ok {
		return repo.Sucursal{}, repo.ErrNotFound
	}
	return s, nil
}

func (m *Store) CreateSucursal(ctx context.Context, arg repo.CreateSucursalParams) (repo.Sucursal, error) {
	s := repo.Sucursal{ID: m.next(), Nombre: arg.Nombre, Zona: arg.Zona, Direccion: arg.Direccion, Superficie: arg.Superficie}
	m.data.sucursales[s.ID] = s
	return s, nil
}

func (m *Store) UpdateSucursal(ctx context.Context, s repo.Sucursal) (repo.Sucursal, error) {
	if _, ok := m.data.sucursales[s.ID]; !ok {
		return repo.Sucursal{}, repo.ErrNotFound
	}
	m.data.sucursales[s.ID] = s
	return s, nil
}

func (m *Store) DeleteSucursal(ctx context.Context, id int64) error {
	if _, ok := m.data.sucursales[id]; !ok {
		return repo.ErrNotFound
	}
	for _, c := range m.data.mCorr {
		if c.SucursalID == id {
			return repo.ErrInUse
		}
	}
	delete(m.data.sucursales, id)
	for k, p := range m.data.preventivos {
		if p.SucursalID == id {
			delete(m.data.preventivos, k)
		}
	}
	return nil
}

func (m *Store) ListCuadrillas(ctx context.Context) ([]repo.Cuadrilla, error) {
	out := []repo.Cuadrilla{}
	for _, k := range sortedKeys(m.data.cuadrillas) {
		out = append(out, m.data.cuadrillas[k])
	}
	return out, nil
}

func (m *Store) GetCuadrilla(ctx context.Context, id int64) (repo.Cuadrilla, error) {
	c, ok := m.data.cuadrillas[id]
	if !ok {
		return repo.Cuadrilla{}, repo.ErrNotFound
	}
	return c, nil
}

func (m *Store) GetCuadrillaByEmail(ctx context.Context, email string) (repo.Cuadrilla, error) {
	for _, c := range m.data.cuadrillas {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return repo.Cuadrilla{}, repo.ErrNotFound
}

func (m *Store) CreateCuadrilla(ctx context.Context, arg repo.CreateCuadrillaParams) (repo.Cuadrilla, error) {
	if err := m.Fail["CreateCuadrilla"]; err != nil {
		return repo.Cuadrilla{}, err
	}
	if _, err := m.GetCuadrillaByEmail(ctx, arg.Email); err == nil {
		return repo.Cuadrilla{}, repo.ErrDuplicate
	}
	c := repo.Cuadrilla{ID: m.next(), Nombre: arg.Nombre, Zona: arg.Zona, Email: arg.Email, FirebaseUID: arg.FirebaseUID}
	m.data.cuadrillas[c.ID] = c
	return c, nil
}

func (m *Store) UpdateCuadrilla(ctx context.Context, c repo.Cuadrilla) (repo.Cuadrilla, error) {
	if _, ok := m.data.cuadrillas[c.ID]; !ok {
		return repo.Cuadrilla{}, repo.ErrNotFound
	}
	m.data.cuadrillas[c.ID] = c
	return c, nil
}

func (m *Store) SetCuadrillaFirebaseUID(ctx context.Context, id int64, uid string) error {
	c, ok := m.data.cuadrillas[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.FirebaseUID = &uid
	m.data.cuadrillas[id] = c
	return nil
}

func (m *Store) DeleteCuadrilla(ctx context.Context, id int64) error {
	if _, ok := m.data.cuadrillas[id]; !ok {
		return repo.ErrNotFound
	}
	if n, _ := m.CountCuadrillaUsage(ctx, id); n > 0 {
		return repo.ErrInUse
	}
	delete(m.data.cuadrillas, id)
	return nil
}

func (m *Store) CountCuadrillaUsage(ctx context.Context, id int64) (int64, error) {
	var n int64
	for _, p := range m.data.mPrev {
		if p.CuadrillaID == id {
			n++
		}
	}
	for _, c := range m.data.mCorr {
		if c.CuadrillaID != nil && *c.CuadrillaID == id {
			n++
		}
	}
	return n, nil
}

func (m *Store) ListUsuarios(ctx context.Context) ([]repo.Usuario, error) {
	out := []repo.Usuario{}
	for _, k := range sortedKeys(m.data.usuarios) {
		out = append(out, m.data.usuarios[k])
	}
	return out, nil
}

func (m *Store) GetUsuario(ctx context.Context, id int64) (repo.Usuario, error) {
	u, ok := m.data.usuarios[id]
	if !ok {
		return repo.Usuario{}, repo.ErrNotFound
	}
	return u, nil
}

func (m *Store) GetUsuarioByEmail(ctx context.Context, email string) (repo.Usuario, error) {
	for _, u := range m.data.usuarios {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return repo.Usuario{}, repo.ErrNotFound
}

func (m *Store) CreateUsuario(ctx context.Context, arg repo.CreateUsuarioParams) (repo.Usuario, error) {
	if err := m.Fail["CreateUsuario"]; err != nil {
		return repo.Usuario{}, err
	}
	if _, err := m.GetUsuarioByEmail(ctx, arg.Email); err == nil {
		return repo.Usuario{}, repo.ErrDuplicate
	}
	u := repo.Usuario{ID: m.next(), Nombre: arg.Nombre, Email: arg.Email, Rol: arg.Rol, FirebaseUID: arg.FirebaseUID}
	m.data.usuarios[u.ID] = u
	return u, nil
}

func (m *Store) UpdateUsuario(ctx context.Context, u repo.Usuario) (repo.Usuario, error) {
	if _, ok := m.data.usuarios[u.ID]; !ok {
		return repo.Usuario{}, repo.ErrNotFound
	}
	m.data.usuarios[u.ID] = u
	return u, nil
}

func (m *Store) SetUsuarioFirebaseUID(ctx context.Context, id int64, uid string) error {
	u, ok := m.data.usuarios[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.FirebaseUID = &uid
	m.data.usuarios[id] = u
	return nil
}

func (m *Store) DeleteUsuario(ctx context.Context, id int64) error {
	if _, ok := m.data.usuarios[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.data.usuarios, id)
	return nil
}

func (m *Store) ListPreventivos(ctx context.Context) ([]repo.Preventivo, error) {
	out := []repo.Preventivo{}
	for _, k := range sortedKeys(m.data.preventivos) {
		out = append(out, m.data.preventivos[k])
	}
	return out, nil
}

func (m *Store) GetPreventivo(ctx context.Context, id int64) (repo.Preventivo, error) {
	p, ok := m.data.preventivos[id]
	if !ok {
		return repo.Preventivo{}, repo.ErrNotFound
	}
	return p, nil
}

func (m *Store) GetPreventivoByNombreSucursal(ctx context.Context, nombre string) (repo.Preventivo, error) {
	for _, k := range sortedKeys(m.data.preventivos) {
		if p := m.data.preventivos[k]; p.NombreSucursal == nombre {
			return p, nil
		}
	}
	return repo.Preventivo{}, repo.ErrNotFound
}

func (m *Store) CreatePreventivo(ctx context.Context, arg repo.CreatePreventivoParams) (repo.Preventivo, error) {
	for _, p := range m.data.preventivos {
		if p.SucursalID == arg.SucursalID && p.Frecuencia == arg.Frecuencia {
			return repo.Preventivo{}, repo.ErrDuplicate
		}
	}
	p := repo.Preventivo{ID: m.next(), SucursalID: arg.SucursalID, NombreSucursal: arg.NombreSucursal, Frecuencia: arg.Frecuencia}
	m.data.preventivos[p.ID] = p
	return p, nil
}

func (m *Store) DeletePreventivo(ctx context.Context, id int64) error {
	if _, ok := m.data.preventivos[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.data.preventivos, id)
	return nil
}

func (m *Store) ListMantenimientosPreventivos(ctx context.Context) ([]repo.MantenimientoPreventivo, error) {
	out := []repo.MantenimientoPreventivo{}
	for _, k := range sortedKeys(m.data.mPrev) {
		out = append(out, m.data.mPrev[k])
	}
	return out, nil
}

func (m *Store) GetMantenimientoPreventivo(ctx context.Context, id int64) (repo.MantenimientoPreventivo, error) {
	p, ok := m.data.mPrev[id]
	if !ok {
		return repo.MantenimientoPreventivo{}, repo.ErrNotFound
	}
	return p, nil
}

func (m *Store) CreateMantenimientoPreventivo(ctx context.Context, arg repo.CreateMantenimientoPreventivoParams) (repo.MantenimientoPreventivo, error) {
	p := repo.MantenimientoPreventivo{
		ID:             m.next(),
		NombreSucursal: arg.NombreSucursal,
		Frecuencia:     arg.Frecuencia,
		CuadrillaID:    arg.CuadrillaID,
		FechaApertura:  arg.FechaApertura,
		Planillas:      []string{},
		Fotos:          []string{},
	}
	m.data.mPrev[p.ID] = p
	return p, nil
}

func (m *Store) UpdateMantenimientoPreventivo(ctx context.Context, p repo.MantenimientoPreventivo) (repo.MantenimientoPreventivo, error) {
	if err := m.Fail["UpdateMantenimientoPreventivo"]; err != nil {
		return repo.MantenimientoPreventivo{}, err
	}
	if _, ok := m.data.mPrev[p.ID]; !ok {
		return repo.MantenimientoPreventivo{}, repo.ErrNotFound
	}
	m.data.mPrev[p.ID] = p
	return p, nil
}

func (m *Store) DeleteMantenimientoPreventivo(ctx context.Context, id int64) error {
	if _, ok := m.data.mPrev[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.data.mPrev, id)
	return nil
}

func (m *Store) ListMantenimientosCorrectivos(ctx context.Context) ([]repo.MantenimientoCorrectivo, error) {
	out := []repo.MantenimientoCorrectivo{}
	for _, k := range sortedKeys(m.data.mCorr) {
		out = append(out, m.data.mCorr[k])
	}
	return out, nil
}

func (m *Store) GetMantenimientoCorrectivo(ctx context.Context, id int64) (repo.MantenimientoCorrectivo, error) {
	c, ok := m.data.mCorr[id]
	if !ok {
		return repo.MantenimientoCorrectivo{}, repo.ErrNotFound
	}
	return c, nil
}

func (m *Store) CreateMantenimientoCorrectivo(ctx context.Context, arg repo.CreateMantenimientoCorrectivoParams) (repo.MantenimientoCorrectivo, error) {
	c := repo.MantenimientoCorrectivo{
		ID:            m.next(),
		SucursalID:    arg.SucursalID,
		CuadrillaID:   arg.CuadrillaID,
		FechaApertura: arg.FechaApertura,
		NumeroCaso:    arg.NumeroCaso,
		Incidente:     arg.Incidente,
		Rubro:         arg.Rubro,
		Estado:        arg.Estado,
		Prioridad:     arg.Prioridad,
		Fotos:         []string{},
	}
	m.data.mCorr[c.ID] = c
	return c, nil
}

func (m *Store) UpdateMantenimientoCorrectivo(ctx context.Context, c repo.MantenimientoCorrectivo) (repo.MantenimientoCorrectivo, error) {
	if err := m.Fail["UpdateMantenimientoCorrectivo"]; err != nil {
		return repo.MantenimientoCorrectivo{}, err
	}
	if _, ok := m.data.mCorr[c.ID]; !ok {
		return repo.MantenimientoCorrectivo{}, repo.ErrNotFound
	}
	m.data.mCorr[c.ID] = c
	return c, nil
}

func (m *Store) DeleteMantenimientoCorrectivo(ctx context.Context, id int64) error {
	if _, ok := m.data.mCorr[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.data.mCorr, id)
	return nil
}

func (m *Store) GetPreferencia(ctx context.Context, subject, tabla string) (repo.Preferencia, error) {
	p, ok := m.data.prefs[subject+"|"+tabla]
	if !ok {
		return repo.Preferencia{}, repo.ErrNotFound
	}
	return p, nil
}

func (m *Store) UpsertPreferencia(ctx context.Context, p repo.Preferencia) (repo.Preferencia, error) {
	m.data.prefs[p.Subject+"|"+p.Tabla] = p
	return p, nil
}

var _ repo.Store = (*Store)(nil)
