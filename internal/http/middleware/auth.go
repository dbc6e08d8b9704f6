package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mantenimiento/api/internal/apperr"
	"github.com/mantenimiento/api/internal/service"
)

type callerKey struct{}

// Resolver convierte el bearer token en el caller autenticado.
type Resolver interface {
	ResolveCaller(ctx context.Context, token string) (*service.CallerContext, error)
}

// Auth resuelve el caller y lo deja en el contexto para que el handler lo
// pase explícitamente al servicio.
func Auth(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, apperr.KindUnauthenticated.String(), "Autenticación requerida")
				return
			}

			caller, err := resolver.ResolveCaller(r.Context(), token)
			if err != nil {
				status := http.StatusInternalServerError
				kind := apperr.KindOf(err)
				if kind == apperr.KindUnauthenticated {
					status = http.StatusUnauthorized
				}
				writeError(w, status, kind.String(), apperr.MessageOf(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// BearerToken extrae el token del header Authorization.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func WithCaller(ctx context.Context, caller *service.CallerContext) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// Caller devuelve nil si la ruta no pasó por Auth.
func Caller(ctx context.Context) *service.CallerContext {
	caller, _ := ctx.Value(callerKey{}).(*service.CallerContext)
	return caller
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
