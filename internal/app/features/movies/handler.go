// internal/app/features/movies/handler.go
package movies

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	groupstore "github.com/reelhub/reelhub/internal/app/store/groups"
	recstore "github.com/reelhub/reelhub/internal/app/store/recommendations"
	"github.com/reelhub/reelhub/internal/app/system/authz"
	"github.com/reelhub/reelhub/internal/app/system/httpjson"
	"github.com/reelhub/reelhub/internal/app/system/inputval"
	"github.com/reelhub/reelhub/internal/app/system/normalize"
	"github.com/reelhub/reelhub/internal/app/system/omdb"
	"github.com/reelhub/reelhub/internal/app/system/timeouts"
	"github.com/reelhub/reelhub/internal/domain/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Movies *omdb.Client
	Groups *groupstore.Store
	Recs   *recstore.Store
	Log    *zap.Logger
}

func NewHandler(movies *omdb.Client, groups *groupstore.Store, recs *recstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Movies: movies, Groups: groups, Recs: recs, Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /movies/search?q=&type=&page=                                            |
*─────────────────────────────────────────────────────────────────────────────*/

type searchResponse struct {
	Results []omdb.SearchItem `json:"results"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
}

// ServeSearch proxies a title search to the movie metadata service.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	term := normalize.QueryParam(query.Get(r, "q"))
	if term == "" {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: search term is required", apperr.ErrValidation))
		return
	}

	mediaType := normalize.QueryParam(query.Get(r, "type"))
	switch mediaType {
	case "", "movie", "series":
	default:
		httpjson.Error(w, h.Log, fmt.Errorf("%w: type must be movie or series", apperr.ErrValidation))
		return
	}

	page := 1
	if raw := query.Get(r, "page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpjson.Error(w, h.Log, fmt.Errorf("%w: invalid page", apperr.ErrValidation))
			return
		}
		page = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	result, err := h.Movies.Search(ctx, term, omdb.SearchOptions{Type: mediaType, Page: page})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// No matches is an empty page, not a 404.
			httpjson.Respond(w, http.StatusOK, searchResponse{
				Results: []omdb.SearchItem{}, Total: 0, Page: page,
			})
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, searchResponse{
		Results: result.Items,
		Total:   result.Total,
		Page:    page,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /movies/{movieID}                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// recommendedIn names a group where the caller recommended this movie.
type recommendedIn struct {
	GroupID primitive.ObjectID `json:"group_id"`
	Name    string             `json:"name"`
}

type detailResponse struct {
	omdb.Detail
	RecommendedIn []recommendedIn `json:"recommended_in"`
}

// ServeDetail returns the full movie record plus the caller's groups in
// which they have recommended it.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: sign in required", apperr.ErrNotAuthorized))
		return
	}

	movieID := normalize.MovieID(chi.URLParam(r, "movieID"))
	if !inputval.IsValidMovieID(movieID) {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: invalid movie id", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	detail, err := h.Movies.GetByID(ctx, movieID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	recs, err := h.Recs.ListByMovieForUser(ctx, movieID, uid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	groups := make([]recommendedIn, 0, len(recs))
	for _, rec := range recs {
		g, err := h.Groups.GetByID(ctx, rec.GroupID)
		if err != nil {
			// Recommendations can outlive a deleted group; skip orphans.
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			httpjson.Error(w, h.Log, err)
			return
		}
		groups = append(groups, recommendedIn{GroupID: g.ID, Name: g.Name})
	}

	httpjson.Respond(w, http.StatusOK, detailResponse{Detail: detail, RecommendedIn: groups})
}
