// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"
	"github.com/reelhub/reelhub/internal/app/system/auth"
)

// Routes returns a subrouter for group management. All endpoints require
// a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)    // mounted under /groups
	r.Post("/", h.HandleCreate)
	r.Post("/join", h.HandleJoin)

	r.Route("/{groupID}", func(r chi.Router) {
		r.Get("/", h.ServeGroup)
		r.Patch("/", h.HandleEdit)
		r.Delete("/", h.HandleDelete)
		r.Post("/exit", h.HandleExit)
	})

	return r
}
