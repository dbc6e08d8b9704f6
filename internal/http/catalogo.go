package http

import (
	"net/http"

	"github.com/mantenimiento/api/internal/repo"
	"github.com/mantenimiento/api/internal/service"
)

func (h *Handler) ListZonas(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Zonas.List(r.Context(), callerFrom(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetZona(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.svc.Zonas.Get(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateZona(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Nombre string `json:"nombre"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	item, err := h.svc.Zonas.Create(r.Context(), callerFrom(r), clean(payload.Nombre))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) DeleteZona(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	msg, err := h.svc.Zonas.Delete(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, msg)
}

type sucursalPayload struct {
	Nombre     *string `json:"nombre"`
	Zona       *string `json:"zona"`
	Direccion  *string `json:"direccion"`
	Superficie *string `json:"superficie"`
}

func (p sucursalPayload) patch() repo.SucursalPatch {
	return repo.SucursalPatch{
		Nombre:     cleanPtr(p.Nombre),
		Zona:       cleanPtr(p.Zona),
		Direccion:  cleanPtr(p.Direccion),
		Superficie: cleanPtr(p.Superficie),
	}
}

func (h *Handler) ListSucursales(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Sucursales.List(r.Context(), callerFrom(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetSucursal(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.svc.Sucursales.Get(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateSucursal(w http.ResponseWriter, r *http.Request) {
	var payload sucursalPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	p := payload.patch()
	item, err := h.svc.Sucursales.Create(r.Context(), callerFrom(r), repo.CreateSucursalParams{
		Nombre:     deref(p.Nombre),
		Zona:       deref(p.Zona),
		Direccion:  deref(p.Direccion),
		Superficie: deref(p.Superficie),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateSucursal(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var payload sucursalPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	item, err := h.svc.Sucursales.Update(r.Context(), callerFrom(r), id, payload.patch())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteSucursal(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	msg, err := h.svc.Sucursales.Delete(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, msg)
}

func (h *Handler) ListPreventivos(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Preventivos.List(r.Context(), callerFrom(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetPreventivo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.svc.Preventivos.Get(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) CreatePreventivo(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SucursalID int64  `json:"id_sucursal"`
		Frecuencia string `json:"frecuencia"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	item, err := h.svc.Preventivos.Create(r.Context(), callerFrom(r), service.CreatePreventivoInput{
		SucursalID: payload.SucursalID,
		Frecuencia: clean(payload.Frecuencia),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) DeletePreventivo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	msg, err := h.svc.Preventivos.Delete(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, msg)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
