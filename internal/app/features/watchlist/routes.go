// internal/app/features/watchlist/routes.go
package watchlist

import (
	"github.com/go-chi/chi/v5"
	"github.com/reelhub/reelhub/internal/app/system/auth"
)

// Routes returns a subrouter for the caller's watchlist and watched list.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeLists)  // mounted under /watchlist
	r.Post("/", h.HandleAdd)

	r.Route("/{movieID}", func(r chi.Router) {
		r.Delete("/", h.HandleRemove)
		r.Post("/watched", h.HandleMarkWatched)
		r.Post("/unwatched", h.HandleMarkUnwatched)
	})

	return r
}
