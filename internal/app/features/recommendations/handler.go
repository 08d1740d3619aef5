// internal/app/features/recommendations/handler.go
package recommendations

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"github.com/reelhub/reelhub/internal/app/policy/grouppolicy"
	groupstore "github.com/reelhub/reelhub/internal/app/store/groups"
	recstore "github.com/reelhub/reelhub/internal/app/store/recommendations"
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
	Groups *groupstore.Store
	Recs   *recstore.Store
	Log    *zap.Logger
}

func NewHandler(groups *groupstore.Store, recs *recstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Groups: groups, Recs: recs, Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /groups/{groupID}/recommendations                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// listResponse carries the shared-vs-individual partition plus the genre
// catalog for the group's recommendations.
type listResponse struct {
	Combined   []models.Recommendation `json:"combined"`
	Individual []models.Recommendation `json:"individual"`
	Genres     []string                `json:"genres"`
}

// ServeList returns the group's recommendations partitioned against the
// optional ?users=<id,id,…> selection and filtered by ?genre=. With no
// user selection everything lands in individual.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	g, _, ok := h.loadGroupForMember(w, r)
	if !ok {
		return
	}

	selected, err := parseUserSelection(query.Get(r, "users"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	// Selected users outside the group cannot contribute to a partition.
	for _, id := range selected {
		if !g.HasMember(id) {
			httpjson.Error(w, h.Log, fmt.Errorf("%w: selected user is not a group member", apperr.ErrValidation))
			return
		}
	}
	genre := normalize.Genre(query.Get(r, "genre"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	recs, err := h.Recs.ListByGroup(ctx, g.ID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	p := recfilter.Split(recs, selected, genre)
	resp := listResponse{
		Combined:   p.Combined,
		Individual: p.Individual,
		Genres:     recfilter.Genres(recs),
	}
	if resp.Combined == nil {
		resp.Combined = []models.Recommendation{}
	}
	if resp.Individual == nil {
		resp.Individual = []models.Recommendation{}
	}
	if resp.Genres == nil {
		resp.Genres = []string{}
	}
	httpjson.Respond(w, http.StatusOK, resp)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{groupID}/recommendations                                       |
*─────────────────────────────────────────────────────────────────────────────*/

type recommendRequest struct {
	MovieID string `json:"movie_id"`
	Title   string `json:"title"`
	Poster  string `json:"poster"`
	Year    string `json:"year"`
	Genre   string `json:"genre"`
	Rating  string `json:"rating"`
	Plot    string `json:"plot"`
	Type    string `json:"type"`
}

// HandleRecommend adds the caller to the movie's recommender set,
// creating the recommendation with the submitted snapshot on first use.
// Recommending a movie twice is a no-op, not an error.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	g, uid, ok := h.loadGroupForMember(w, r)
	if !ok {
		return
	}

	var req recommendRequest
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

	// The snapshot is captured at recommend-time and never re-fetched;
	// later metadata changes upstream do not propagate.
	snapshot := models.MovieSnapshot{
		Title:  htmlsanitize.Strip(req.Title),
		Poster: req.Poster,
		Year:   req.Year,
		Genre:  htmlsanitize.Strip(req.Genre),
		Rating: req.Rating,
		Plot:   htmlsanitize.Strip(req.Plot),
		Type:   req.Type,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Recs.Recommend(ctx, g.ID, snapshot, movieID, uid); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("movie recommended",
		zap.String("group_id", g.ID.Hex()),
		zap.String("movie_id", movieID),
		zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "recommended"})
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /groups/{groupID}/recommendations/{movieID}                           |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleUnrecommend removes the caller from the recommender set; the
// recommendation disappears when its last recommender leaves.
func (h *Handler) HandleUnrecommend(w http.ResponseWriter, r *http.Request) {
	g, uid, ok := h.loadGroupForMember(w, r)
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

	if err := h.Recs.Unrecommend(ctx, g.ID, movieID, uid); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("movie unrecommended",
		zap.String("group_id", g.ID.Hex()),
		zap.String("movie_id", movieID),
		zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "unrecommended"})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// parseUserSelection splits the comma-separated ?users= value into
// ObjectIDs. Empty input means no selection.
func parseUserSelection(raw string) ([]primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]primitive.ObjectID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(p)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid user id %q", apperr.ErrValidation, p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// loadGroupForMember parses {groupID}, loads the group, and verifies the
// caller belongs to it.
func (h *Handler) loadGroupForMember(w http.ResponseWriter, r *http.Request) (models.Group, primitive.ObjectID, bool) {
	_, uid, signedIn := authz.UserCtx(r)
	if !signedIn {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: sign in required", apperr.ErrNotAuthorized))
		return models.Group{}, primitive.NilObjectID, false
	}

	gid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: invalid group id", apperr.ErrValidation))
		return models.Group{}, primitive.NilObjectID, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, gid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return models.Group{}, primitive.NilObjectID, false
	}
	if !grouppolicy.CanRecommend(g, uid) {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: not a member of this group", apperr.ErrNotAuthorized))
		return models.Group{}, primitive.NilObjectID, false
	}
	return g, uid, true
}
