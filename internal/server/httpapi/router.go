package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the HTTP surface. Reading a secret and marking it
// viewed are public (the link is the credential); everything else requires
// an authenticated owner. Rate limiting applies to mutations only.
func NewRouter(h *Handler, jwtSecret []byte) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", h.Health)

	r.Route("/api/secrets", func(r chi.Router) {
		// public read path
		r.Get("/{id}", h.GetSecret)
		r.With(h.rateLimit).Post("/{id}/viewed", h.MarkSecretViewed)

		// owner operations
		r.Group(func(r chi.Router) {
			r.Use(authenticate(jwtSecret))
			r.Get("/", h.ListMySecrets)
			r.With(h.rateLimit).Post("/", h.CreateSecret)
			r.With(h.rateLimit).Patch("/{id}", h.UpdateSecret)
			r.With(h.rateLimit).Delete("/{id}", h.DeleteSecret)
		})
	})

	return r
}
