package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"BOOKWORM_BACK-END/internal/handlers"
	"BOOKWORM_BACK-END/internal/logging"
)

// Handlers groups everything the router mounts. Google is nil when Google OAuth is not configured.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Books  *handlers.BookHandler
	Health *handlers.HealthHandler
	Google *handlers.GoogleAuthHandler

	// RequireAuth guards the bearer protected routes
	RequireAuth func(http.Handler) http.Handler
}

// SetupRoutes configures all application routes
func SetupRoutes(h Handlers, logger logging.Logger, requestLog func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if requestLog != nil {
		r.Use(requestLog)
	}
	r.Use(chimw.Recoverer)

	// Health check routes
	r.Get("/healthz", h.Health.HealthCheck)
	r.Get("/livez", h.Health.LivenessCheck)
	r.Get("/readyz", h.Health.ReadinessCheck)

	// API docs
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Authentication routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.With(h.RequireAuth).Get("/me", h.Auth.Me)

		if h.Google != nil {
			r.Get("/google/login", h.Google.GoogleLogin)
			r.Get("/google/callback", h.Google.GoogleCallback)
		} else {
			logger.Warn(context.Background(), "google sign-in routes disabled")
		}
	})

	// Book routes
	r.Route("/books", func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Post("/", h.Books.Create)
		r.Get("/", h.Books.List)
		r.Get("/user", h.Books.ListMine)
		r.Delete("/{id}", h.Books.Delete)
	})

	// Root route
	r.Get("/", rootHandler)

	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Bookworm backend is running."))
}
