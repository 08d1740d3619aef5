// internal/app/features/movies/routes.go
package movies

import (
	"github.com/go-chi/chi/v5"
	"github.com/reelhub/reelhub/internal/app/system/auth"
)

// Routes returns a subrouter for movie search and detail lookup.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/search", h.ServeSearch) // mounted under /movies
	r.Get("/{movieID}", h.ServeDetail)

	return r
}
