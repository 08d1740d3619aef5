// internal/app/features/watchlist/handler.go
package watchlist

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	watchstore "github.com/reelhub/reelhub/internal/app/store/watchlists"
	"github.com/reelhub/reelhub/internal/app/system/authz"
	"github.com/reelhub/reelhub/internal/app/system/htmlsanitize"
	"github.com/reelhub/reelhub/internal/app/system/httpjson"
	"github.com/reelhub/reelhub/internal/app/system/inputval"
	"github.com/reelhub/reelhub/internal/app/system/normalize"
	"github.com/reelhub/reelhub/internal/app/system/recfilter"
	"github.com/reelhub/reelhub/internal/app/system/timeouts"
	"github.com/reelhub/reelhub/internal/domain/apperr"
	"github.com/reelhub/reelhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Watch *watchstore.Store
	Log   *zap.Logger
}

func NewHandler(watch *watchstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Watch: watch, Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /watchlist                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type listsResponse struct {
	Watchlist []models.WatchEntry `json:"watchlist"`
	Watched   []models.WatchEntry `json:"watched"`
}

// ServeLists returns both of the caller's lists, optionally filtered by
// ?genre= (exact token match over the comma-joined genre string).
func (h *Handler) ServeLists(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.caller(w, r)
	if !ok {
		return
	}
	genre := normalize.Genre(query.Get(r, "genre"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	watchlist, watched, err := h.Watch.Lists(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, listsResponse{
		Watchlist: filterByGenre(watchlist, genre),
		Watched:   filterByGenre(watched, genre),
	})
}

func filterByGenre(entries []models.WatchEntry, genre string) []models.WatchEntry {
	if genre == "" {
		return entries
	}
	out := make([]models.WatchEntry, 0, len(entries))
	for _, e := range entries {
		if recfilter.MatchesGenre(e.Genre, genre) {
			out = append(out, e)
		}
	}
	return out
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /watchlist                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

type addRequest struct {
	MovieID string `json:"movie_id"`
	Title   string `json:"title"`
	Poster  string `json:"poster"`
	Type    string `json:"type"`
	Genre   string `json:"genre"`
	Rating  string `json:"rating"`
	Year    string `json:"year"`
	Runtime string `json:"runtime"`
	Plot    string `json:"plot"`
}

// HandleAdd puts a movie on the watchlist. A movie already on either
// list is rejected; there is no direct path from absent to watched.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req addRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	movieID := normalize.MovieID(req.MovieID)
	if !inputval.IsValidMovieID(movieID) {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: invalid movie id", apperr.ErrValidation))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: movie title is required", apperr.ErrValidation))
		return
	}

	entry := models.WatchEntry{
		MovieID: movieID,
		Title:   htmlsanitize.Strip(req.Title),
		Poster:  req.Poster,
		Type:    req.Type,
		Genre:   htmlsanitize.Strip(req.Genre),
		Rating:  req.Rating,
		Year:    req.Year,
		Runtime: req.Runtime,
		Plot:    htmlsanitize.Strip(req.Plot),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Watch.Add(ctx, uid, entry); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("movie added to watchlist",
		zap.String("user_id", uid.Hex()),
		zap.String("movie_id", movieID))
	httpjson.Respond(w, http.StatusCreated, map[string]string{"status": "added"})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /watchlist/{movieID}/watched                                            |
| POST /watchlist/{movieID}/unwatched                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleMarkWatched moves the movie from watchlist to watched.
func (h *Handler) HandleMarkWatched(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Watch.MarkWatched, "watched")
}

// HandleMarkUnwatched moves the movie back to the watchlist.
func (h *Handler) HandleMarkUnwatched(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Watch.MarkUnwatched, "unwatched")
}

func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, primitive.ObjectID, string) error,
	status string,
) {
	uid, ok := h.caller(w, r)
	if !ok {
		return
	}

	movieID := normalize.MovieID(chi.URLParam(r, "movieID"))
	if !inputval.IsValidMovieID(movieID) {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: invalid movie id", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := op(ctx, uid, movieID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": status})
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /watchlist/{movieID}?watched=true                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleRemove drops the movie from one list; ?watched=true selects the
// watched list, otherwise the watchlist.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.caller(w, r)
	if !ok {
		return
	}

	movieID := normalize.MovieID(chi.URLParam(r, "movieID"))
	if !inputval.IsValidMovieID(movieID) {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: invalid movie id", apperr.ErrValidation))
		return
	}
	fromWatched := query.Get(r, "watched") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Watch.Remove(ctx, uid, movieID, fromWatched); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: sign in required", apperr.ErrNotAuthorized))
		return primitive.NilObjectID, false
	}
	return uid, true
}
