package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/mantenimiento/api/internal/repo"
	"github.com/mantenimiento/api/internal/service"
	"github.com/mantenimiento/api/internal/util"
)

// mantenimientoPayload reúne los campos que aceptan ambas órdenes. Las fechas
// llegan como texto ISO y se parsean recién al armar el patch.
type mantenimientoPayload struct {
	SucursalID     *int64  `json:"id_sucursal"`
	NombreSucursal *string `json:"nombre_sucursal"`
	Frecuencia     *string `json:"frecuencia"`
	CuadrillaID    *int64  `json:"id_cuadrilla"`
	FechaApertura  *string `json:"fecha_apertura"`
	FechaCierre    *string `json:"fecha_cierre"`
	NumeroCaso     *string `json:"numero_caso"`
	Incidente      *string `json:"incidente"`
	Rubro          *string `json:"rubro"`
	Estado         *string `json:"estado"`
	Prioridad      *string `json:"prioridad"`
	Extendido      *string `json:"extendido"`
}

// payloadFromForm toma los campos de texto de un multipart. Los ids se validan acá.
func payloadFromForm(form *multipart.Form) (mantenimientoPayload, error) {
	p := mantenimientoPayload{
		NombreSucursal: formValue(form, "nombre_sucursal"),
		Frecuencia:     formValue(form, "frecuencia"),
		FechaApertura:  formValue(form, "fecha_apertura"),
		FechaCierre:    formValue(form, "fecha_cierre"),
		NumeroCaso:     formValue(form, "numero_caso"),
		Incidente:      formValue(form, "incidente"),
		Rubro:          formValue(form, "rubro"),
		Estado:         formValue(form, "estado"),
		Prioridad:      formValue(form, "prioridad"),
		Extendido:      formValue(form, "extendido"),
	}
	for field, dst := range map[string]**int64{"id_sucursal": &p.SucursalID, "id_cuadrilla": &p.CuadrillaID} {
		raw := formValue(form, field)
		if raw == nil {
			continue
		}
		id, ok := util.ParseID(strings.TrimSpace(*raw))
		if !ok {
			return p, errors.New(field + " inválido")
		}
		*dst = &id
	}
	return p, nil
}

func (p mantenimientoPayload) dates() (apertura, cierre, extendido *time.Time, err error) {
	if apertura, err = optionalDate(p.FechaApertura, "fecha_apertura"); err != nil {
		return
	}
	if cierre, err = optionalDate(p.FechaCierre, "fecha_cierre"); err != nil {
		return
	}
	extendido, err = optionalDate(p.Extendido, "extendido")
	return
}

func (p mantenimientoPayload) correctivoPatch() (repo.MantenimientoCorrectivoPatch, error) {
	apertura, cierre, extendido, err := p.dates()
	if err != nil {
		return repo.MantenimientoCorrectivoPatch{}, err
	}
	return repo.MantenimientoCorrectivoPatch{
		SucursalID:    p.SucursalID,
		CuadrillaID:   p.CuadrillaID,
		FechaApertura: apertura,
		FechaCierre:   cierre,
		NumeroCaso:    cleanPtr(p.NumeroCaso),
		Incidente:     cleanPtr(p.Incidente),
		Rubro:         cleanPtr(p.Rubro),
		Estado:        cleanPtr(p.Estado),
		Prioridad:     cleanPtr(p.Prioridad),
		Extendido:     extendido,
	}, nil
}

func (p mantenimientoPayload) preventivoPatch() (repo.MantenimientoPreventivoPatch, error) {
	apertura, cierre, extendido, err := p.dates()
	if err != nil {
		return repo.MantenimientoPreventivoPatch{}, err
	}
	return repo.MantenimientoPreventivoPatch{
		NombreSucursal: cleanPtr(p.NombreSucursal),
		Frecuencia:     cleanPtr(p.Frecuencia),
		CuadrillaID:    p.CuadrillaID,
		FechaApertura:  apertura,
		FechaCierre:    cierre,
		Extendido:      extendido,
	}, nil
}

// readUpdate acepta JSON o multipart. Con multipart también devuelve el form
// para leer los adjuntos.
func readUpdate(w http.ResponseWriter, r *http.Request) (mantenimientoPayload, *multipart.Form, bool) {
	var payload mantenimientoPayload
	if !isMultipart(r) {
		return payload, nil, decodeJSON(w, r, &payload)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartForm)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "multipart inválido", nil)
		return payload, nil, false
	}
	payload, err := payloadFromForm(r.MultipartForm)
	if err != nil {
		r.MultipartForm.RemoveAll()
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return payload, nil, false
	}
	return payload, r.MultipartForm, true
}

func (h *Handler) ListMantenimientosCorrectivos(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Correctivos.List(r.Context(), callerFrom(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetMantenimientoCorrectivo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.svc.Correctivos.Get(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateMantenimientoCorrectivo(w http.ResponseWriter, r *http.Request) {
	var payload mantenimientoPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.SucursalID == nil || payload.FechaApertura == nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id_sucursal y fecha_apertura son obligatorios", nil)
		return
	}
	patch, err := payload.correctivoPatch()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	item, err := h.svc.Correctivos.Create(r.Context(), callerFrom(r), repo.CreateMantenimientoCorrectivoParams{
		SucursalID:    *payload.SucursalID,
		CuadrillaID:   payload.CuadrillaID,
		FechaApertura: *patch.FechaApertura,
		NumeroCaso:    patch.NumeroCaso,
		Incidente:     patch.Incidente,
		Rubro:         patch.Rubro,
		Estado:        patch.Estado,
		Prioridad:     patch.Prioridad,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateMantenimientoCorrectivo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	payload, form, ok := readUpdate(w, r)
	if !ok {
		return
	}
	if form != nil {
		defer form.RemoveAll()
	}
	patch, err := payload.correctivoPatch()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	in := service.UpdateMantenimientoCorrectivoInput{Patch: patch}
	planillas, err := readFiles(form, "planilla")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if len(planillas) > 1 {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "sólo se admite una planilla", nil)
		return
	}
	if len(planillas) == 1 {
		in.Planilla = &planillas[0]
	}
	if in.Fotos, err = readFiles(form, "fotos"); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	item, err := h.svc.Correctivos.Update(r.Context(), callerFrom(r), id, in)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteMantenimientoCorrectivo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	msg, err := h.svc.Correctivos.Delete(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, msg)
}

func (h *Handler) ListMantenimientosPreventivos(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Programados.List(r.Context(), callerFrom(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetMantenimientoPreventivo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.svc.Programados.Get(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateMantenimientoPreventivo(w http.ResponseWriter, r *http.Request) {
	var payload mantenimientoPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.NombreSucursal == nil || payload.Frecuencia == nil || payload.CuadrillaID == nil || payload.FechaApertura == nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "nombre_sucursal, frecuencia, id_cuadrilla y fecha_apertura son obligatorios", nil)
		return
	}
	patch, err := payload.preventivoPatch()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	item, err := h.svc.Programados.Create(r.Context(), callerFrom(r), repo.CreateMantenimientoPreventivoParams{
		NombreSucursal: *patch.NombreSucursal,
		Frecuencia:     *patch.Frecuencia,
		CuadrillaID:    *patch.CuadrillaID,
		FechaApertura:  *patch.FechaApertura,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateMantenimientoPreventivo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	payload, form, ok := readUpdate(w, r)
	if !ok {
		return
	}
	if form != nil {
		defer form.RemoveAll()
	}
	patch, err := payload.preventivoPatch()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	in := service.UpdateMantenimientoPreventivoInput{Patch: patch}
	if in.Planillas, err = readFiles(form, "planillas"); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if in.Fotos, err = readFiles(form, "fotos"); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	item, err := h.svc.Programados.Update(r.Context(), callerFrom(r), id, in)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteMantenimientoPreventivo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	msg, err := h.svc.Programados.Delete(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, msg)
}
