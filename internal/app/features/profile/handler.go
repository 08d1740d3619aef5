// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"fmt"
	"net/http"

	userstore "github.com/reelhub/reelhub/internal/app/store/users"
	watchstore "github.com/reelhub/reelhub/internal/app/store/watchlists"
	"github.com/reelhub/reelhub/internal/app/system/authz"
	"github.com/reelhub/reelhub/internal/app/system/htmlsanitize"
	"github.com/reelhub/reelhub/internal/app/system/httpjson"
	"github.com/reelhub/reelhub/internal/app/system/inputval"
	"github.com/reelhub/reelhub/internal/app/system/normalize"
	"github.com/reelhub/reelhub/internal/app/system/timeouts"
	"github.com/reelhub/reelhub/internal/domain/apperr"
	"github.com/reelhub/reelhub/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Users *userstore.Store
	Watch *watchstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, watch *watchstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Watch: watch, Log: logger}
}

// profileResponse is the account record plus list sizes; the lists
// themselves live behind /watchlist.
type profileResponse struct {
	models.User
	WatchlistCount int `json:"watchlist_count"`
	WatchedCount   int `json:"watched_count"`
}

// ServeProfile returns the signed-in user's account record.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: sign in required", apperr.ErrNotAuthorized))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	watchlist, watched, err := h.Watch.Lists(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, profileResponse{
		User:           u,
		WatchlistCount: len(watchlist),
		WatchedCount:   len(watched),
	})
}

type updateRequest struct {
	Name string `json:"name"`
}

// HandleUpdate changes the display name.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: sign in required", apperr.ErrNotAuthorized))
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	name := htmlsanitize.Strip(normalize.Name(req.Name))
	if name == "" || len(name) > inputval.MaxNameLen {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: name is required", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.UpdateName(ctx, uid, name); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, u)
}
