package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetPreferencia(w http.ResponseWriter, r *http.Request) {
	tabla := strings.TrimSpace(chi.URLParam(r, "tabla"))
	pref, err := h.svc.Preferencias.Get(r.Context(), callerFrom(r), tabla)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pref)
}

func (h *Handler) SavePreferencia(w http.ResponseWriter, r *http.Request) {
	tabla := strings.TrimSpace(chi.URLParam(r, "tabla"))
	var payload struct {
		Columns []string `json:"columns"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	columnas := make([]string, 0, len(payload.Columns))
	for _, c := range payload.Columns {
		columnas = append(columnas, clean(c))
	}
	pref, err := h.svc.Preferencias.Save(r.Context(), callerFrom(r), tabla, columnas)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pref)
}
