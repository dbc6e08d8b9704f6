package http

import (
	"net/http"

	"github.com/mantenimiento/api/internal/repo"
	"github.com/mantenimiento/api/internal/service"
)

// Las contraseñas nunca pasan por el sanitizador: se envían tal cual al proveedor.
type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IDToken  string `json:"id_token"`
}

func (p credentialsPayload) credentials() service.Credentials {
	return service.Credentials{Email: clean(p.Email), Password: p.Password, IDToken: p.IDToken}
}

func (h *Handler) ListUsuarios(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Usuarios.List(r.Context(), callerFrom(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetUsuario(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.svc.Usuarios.Get(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateUsuario(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Nombre string `json:"nombre"`
		Rol    string `json:"rol"`
		credentialsPayload
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	item, err := h.svc.Usuarios.Create(r.Context(), callerFrom(r), service.CreateUsuarioInput{
		Nombre:      clean(payload.Nombre),
		Rol:         repo.Rol(clean(payload.Rol)),
		Credentials: payload.credentials(),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateUsuario(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var payload struct {
		Nombre   *string `json:"nombre"`
		Email    *string `json:"email"`
		Rol      *string `json:"rol"`
		Password *string `json:"password"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	patch := repo.UsuarioPatch{
		Nombre:   cleanPtr(payload.Nombre),
		Email:    cleanPtr(payload.Email),
		Password: payload.Password,
	}
	if payload.Rol != nil {
		rol := repo.Rol(clean(*payload.Rol))
		patch.Rol = &rol
	}
	item, err := h.svc.Usuarios.Update(r.Context(), callerFrom(r), id, patch)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteUsuario(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	msg, err := h.svc.Usuarios.Delete(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, msg)
}

func (h *Handler) ListCuadrillas(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Cuadrillas.List(r.Context(), callerFrom(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetCuadrilla(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.svc.Cuadrillas.Get(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateCuadrilla(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Nombre string `json:"nombre"`
		Zona   string `json:"zona"`
		credentialsPayload
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	item, err := h.svc.Cuadrillas.Create(r.Context(), callerFrom(r), service.CreateCuadrillaInput{
		Nombre:      clean(payload.Nombre),
		Zona:        clean(payload.Zona),
		Credentials: payload.credentials(),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateCuadrilla(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var payload struct {
		Nombre   *string `json:"nombre"`
		Zona     *string `json:"zona"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	item, err := h.svc.Cuadrillas.Update(r.Context(), callerFrom(r), id, repo.CuadrillaPatch{
		Nombre:   cleanPtr(payload.Nombre),
		Zona:     cleanPtr(payload.Zona),
		Email:    cleanPtr(payload.Email),
		Password: payload.Password,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteCuadrilla(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	msg, err := h.svc.Cuadrillas.Delete(r.Context(), callerFrom(r), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, msg)
}
