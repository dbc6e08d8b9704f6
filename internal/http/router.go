package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mantenimiento/api/internal/config"
	httpmiddleware "github.com/mantenimiento/api/internal/http/middleware"
	"github.com/mantenimiento/api/internal/service"
)

// Services agrupa los casos de uso expuestos por HTTP.
type Services struct {
	Identity     *service.IdentityService
	Zonas        *service.ZonaService
	Sucursales   *service.SucursalService
	Preventivos  *service.PreventivoService
	Cuadrillas   *service.CuadrillaService
	Usuarios     *service.UsuarioService
	Correctivos  *service.MantenimientoCorrectivoService
	Programados  *service.MantenimientoPreventivoService
	Preferencias *service.PreferenciaService
}

// Options son las dependencias de infraestructura del router.
type Options struct {
	// Ready verifica dependencias para /ready; nil responde siempre listo.
	Ready   func(ctx context.Context) error
	Metrics http.Handler
}

type Handler struct {
	svc   Services
	ready func(ctx context.Context) error
}

// NewRouter arma el router con middlewares y rutas.
func NewRouter(cfg *config.Config, svc Services, opts Options) http.Handler {
	h := &Handler{svc: svc, ready: opts.Ready}

	publicLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst)
	authLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "ruta no encontrada", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "VALIDATION", "método no permitido", nil)
	})

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(publicLimiter))

		public.Post("/auth/verify", h.Verify)
		public.Post("/auth/login", h.Login)
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(svc.Identity))
		private.Use(httpmiddleware.CallerRateLimit(authLimiter))

		private.Get("/auth/me", h.Me)

		private.Post("/auth/create-user", h.CreateUsuario)
		private.Put("/auth/update-user/{id}", h.UpdateUsuario)
		private.Delete("/auth/delete-user/{id}", h.DeleteUsuario)
		private.Post("/auth/create-cuadrilla", h.CreateCuadrilla)
		private.Put("/auth/update-cuadrilla/{id}", h.UpdateCuadrilla)
		private.Delete("/auth/delete-cuadrilla/{id}", h.DeleteCuadrilla)

		private.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsuarios)
			r.Get("/{id}", h.GetUsuario)
		})
		private.Route("/cuadrillas", func(r chi.Router) {
			r.Get("/", h.ListCuadrillas)
			r.Get("/{id}", h.GetCuadrilla)
		})
		private.Route("/zonas", func(r chi.Router) {
			r.Get("/", h.ListZonas)
			r.Post("/", h.CreateZona)
			r.Get("/{id}", h.GetZona)
			r.Delete("/{id}", h.DeleteZona)
		})
		private.Route("/sucursales", func(r chi.Router) {
			r.Get("/", h.ListSucursales)
			r.Post("/", h.CreateSucursal)
			r.Get("/{id}", h.GetSucursal)
			r.Put("/{id}", h.UpdateSucursal)
			r.Delete("/{id}", h.DeleteSucursal)
		})
		private.Route("/preventivos", func(r chi.Router) {
			r.Get("/", h.ListPreventivos)
			r.Post("/", h.CreatePreventivo)
			r.Get("/{id}", h.GetPreventivo)
			r.Delete("/{id}", h.DeletePreventivo)
		})
		private.Route("/mantenimientos-preventivos", func(r chi.Router) {
			r.Get("/", h.ListMantenimientosPreventivos)
			r.Post("/", h.CreateMantenimientoPreventivo)
			r.Get("/{id}", h.GetMantenimientoPreventivo)
			r.Put("/{id}", h.UpdateMantenimientoPreventivo)
			r.Delete("/{id}", h.DeleteMantenimientoPreventivo)
		})
		private.Route("/mantenimientos-correctivos", func(r chi.Router) {
			r.Get("/", h.ListMantenimientosCorrectivos)
			r.Post("/", h.CreateMantenimientoCorrectivo)
			r.Get("/{id}", h.GetMantenimientoCorrectivo)
			r.Put("/{id}", h.UpdateMantenimientoCorrectivo)
			r.Delete("/{id}", h.DeleteMantenimientoCorrectivo)
		})
		private.Get("/preferences/{tabla}", h.GetPreferencia)
		private.Put("/preferences/{tabla}", h.SavePreferencia)
	})

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			WriteError(w, http.StatusServiceUnavailable, "INTERNAL", "dependencias no disponibles", map[string]string{"error": err.Error()})
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func callerFrom(r *http.Request) *service.CallerContext {
	return httpmiddleware.Caller(r.Context())
}
