// internal/app/features/recommendations/routes.go
package recommendations

import (
	"github.com/go-chi/chi/v5"
	"github.com/reelhub/reelhub/internal/app/system/auth"
)

// Routes returns a subrouter for a group's recommendations. It is
// mounted under /groups/{groupID}/recommendations, so handlers read the
// groupID URL param from the parent pattern.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleRecommend)
	r.Delete("/{movieID}", h.HandleUnrecommend)

	return r
}
