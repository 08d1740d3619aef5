// internal/app/features/profile/routes.go
package profile

import (
	"github.com/go-chi/chi/v5"
	"github.com/reelhub/reelhub/internal/app/system/auth"
)

// Routes returns a subrouter for the signed-in user's profile.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeProfile)  // mounted under /profile
	r.Patch("/", h.HandleUpdate)
	return r
}
