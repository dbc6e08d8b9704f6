package http

import (
	"net/http"
	"strings"
)

// Verify es el login del frontend: valida el id_token del proveedor y
// devuelve el perfil local. Un email sin registro responde 403.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IDToken string `json:"id_token"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if strings.TrimSpace(payload.IDToken) == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id_token es obligatorio", nil)
		return
	}

	caller, err := h.svc.Identity.Verify(r.Context(), payload.IDToken)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, caller.Profile())
}

// Login sólo está disponible con el proveedor local.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "email y password son obligatorios", nil)
		return
	}

	token, err := h.svc.Identity.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": token.AccessToken,
		"token_type":   "Bearer",
		"expires_at":   token.ExpiresAt,
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, callerFrom(r).Profile())
}
