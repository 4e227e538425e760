package http

import (
	"net/http"

	"github.com/atinyakov/zenly/internal/metrics"
	"github.com/atinyakov/zenly/internal/middleware"
	"github.com/atinyakov/zenly/internal/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// RouterDeps holds everything NewRouter mounts.
type RouterDeps struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Moods       *MoodHandler
	Journals    *JournalHandler
	Meditations *MeditationHandler

	// Gate resolves the bearer credential on every /api route except
	// register and login.
	Gate middleware.Authenticator

	// Metrics and Gatherer are optional; without them /metrics is not served.
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// AuthLimiter, when set, limits register and login per client IP.
	AuthLimiter *middleware.RateLimiter

	// TrustProxy mounts chi's RealIP so client addresses come from proxy
	// headers. Without it the socket address is used, and spoofed headers
	// cannot dodge the per-IP limiter.
	TrustProxy bool

	CORSOrigins []string
	Logger      *zap.Logger
}

// NewRouter constructs the HTTP handler serving the Zenly API.
//
// Middleware chain (applied in order):
//  1. RequestID, RealIP (only with TrustProxy)
//  2. metrics            records count and latency per route pattern
//  3. WithRequestLogging logs every request with its principal
//  4. Recoverer          turns panics into 500 responses
//  5. CORS
//
// Under /api, bodies must be application/json. Every route except
// register and login passes the Authenticate gate; admin routes add
// RequireRole(admin). Ownership is checked by the services.
func NewRouter(d RouterDeps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	if d.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	r.Use(middleware.WithRequestLogging(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", Health)
	if d.Metrics != nil && d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))
	}

	authenticate := middleware.Authenticate(d.Gate, d.Metrics)
	adminOnly := middleware.RequireRole(models.RoleAdmin, d.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))

		// Public endpoints
		r.Group(func(r chi.Router) {
			if d.AuthLimiter != nil {
				r.Use(d.AuthLimiter.Middleware)
			}
			r.Post("/auth/register", d.Auth.Register)
			r.Post("/auth/login", d.Auth.Login)
		})

		// Protected group: requires a valid bearer credential
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/auth/me", d.Auth.Me)
			r.Put("/users/me", d.Users.UpdateMe)

			r.Route("/moods", func(r chi.Router) {
				r.Post("/", d.Moods.Create)
				r.Get("/", d.Moods.List)
				r.Get("/stats", d.Moods.Stats)
				r.Get("/{id}", d.Moods.Get)
				r.Put("/{id}", d.Moods.Update)
				r.Delete("/{id}", d.Moods.Delete)
			})

			r.Route("/journals", func(r chi.Router) {
				r.Post("/", d.Journals.Create)
				r.Get("/", d.Journals.List)
				r.Get("/{id}", d.Journals.Get)
				r.Put("/{id}", d.Journals.Update)
				r.Delete("/{id}", d.Journals.Delete)
			})

			r.Route("/meditations", func(r chi.Router) {
				r.Get("/", d.Meditations.List)
				r.Get("/{id}", d.Meditations.Get)
				r.With(adminOnly).Post("/", d.Meditations.Create)
				r.With(adminOnly).Put("/{id}", d.Meditations.Update)
				r.With(adminOnly).Delete("/{id}", d.Meditations.Delete)
			})

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/users", d.Users.List)
				r.Put("/users/{id}/role", d.Users.UpdateRole)
				r.Delete("/users/{id}", d.Users.Delete)
			})
		})
	})

	return r
}

// Health handles GET /health.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
