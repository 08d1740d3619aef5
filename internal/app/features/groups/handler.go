// internal/app/features/groups/handler.go
package groups

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/reelhub/reelhub/internal/app/policy/grouppolicy"
	groupstore "github.com/reelhub/reelhub/internal/app/store/groups"
	recstore "github.com/reelhub/reelhub/internal/app/store/recommendations"
	userstore "github.com/reelhub/reelhub/internal/app/store/users"
	"github.com/reelhub/reelhub/internal/app/system/authz"
	"github.com/reelhub/reelhub/internal/app/system/htmlsanitize"
	"github.com/reelhub/reelhub/internal/app/system/httpjson"
	"github.com/reelhub/reelhub/internal/app/system/inputval"
	"github.com/reelhub/reelhub/internal/app/system/normalize"
	"github.com/reelhub/reelhub/internal/app/system/timeouts"
	"github.com/reelhub/reelhub/internal/domain/apperr"
	"github.com/reelhub/reelhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Groups *groupstore.Store
	Users  *userstore.Store
	Recs   *recstore.Store
	Log    *zap.Logger
}

func NewHandler(groups *groupstore.Store, users *userstore.Store, recs *recstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Groups: groups, Users: users, Recs: recs, Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /groups                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// groupSummary is a list row: the group plus derived counts.
type groupSummary struct {
	models.Group
	MemberCount         int   `json:"member_count"`
	RecommendationCount int64 `json:"recommendation_count"`
}

// ServeList returns the groups the caller belongs to.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: sign in required", apperr.ErrNotAuthorized))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Groups.ListForUser(ctx, uid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ids := make([]primitive.ObjectID, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	counts, err := h.Recs.CountsByGroup(ctx, ids)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	out := make([]groupSummary, len(groups))
	for i, g := range groups {
		out[i] = groupSummary{
			Group:               g,
			MemberCount:         len(g.Members),
			RecommendationCount: counts[g.ID],
		}
	}
	httpjson.Respond(w, http.StatusOK, out)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreate makes a new group with the caller as its sole admin.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: sign in required", apperr.ErrNotAuthorized))
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	name := htmlsanitize.Strip(normalize.Name(req.Name))
	desc := htmlsanitize.Strip(normalize.Name(req.Description))
	if name == "" || desc == "" {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: name and description are required", apperr.ErrValidation))
		return
	}
	if len(name) > inputval.MaxNameLen || len(desc) > inputval.MaxDescriptionLen {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: name or description too long", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Groups.Create(ctx, models.Group{
		Name:        name,
		Description: desc,
		CreatedBy:   uid,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("group created",
		zap.String("group_id", created.ID.Hex()),
		zap.String("created_by", uid.Hex()))
	httpjson.Respond(w, http.StatusCreated, created)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/join                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

type joinRequest struct {
	InviteCode string `json:"invite_code"`
}

// HandleJoin adds the caller to the group behind an invite code. Joining
// a group the caller is already in is an error, not a silent success.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: sign in required", apperr.ErrNotAuthorized))
		return
	}

	var req joinRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	code := normalize.InviteCode(req.InviteCode)
	if !inputval.IsValidInviteCode(code) {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: invalid invite code", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByInviteCode(ctx, code)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := h.Groups.AddMember(ctx, g.ID, uid); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	g, err = h.Groups.GetByID(ctx, g.ID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("user joined group",
		zap.String("group_id", g.ID.Hex()),
		zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, g)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /groups/{groupID}                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// memberProfile joins a membership with the user's display fields.
type memberProfile struct {
	UserID   primitive.ObjectID `json:"user_id"`
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Role     string             `json:"role"`
	JoinedAt time.Time          `json:"joined_at"`
}

type groupDetail struct {
	models.Group
	MemberProfiles []memberProfile `json:"member_profiles"`
}

// ServeGroup returns a group with resolved member profiles. Members only.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
	g, _, ok := h.loadGroupForMember(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ids := make([]primitive.ObjectID, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	users, err := h.Users.GetManyByIDs(ctx, ids)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	profiles := make([]memberProfile, 0, len(g.Members))
	for _, m := range g.Members {
		p := memberProfile{
			UserID:   m.UserID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		}
		if u, found := byID[m.UserID]; found {
			p.Name = u.Name
			p.Email = u.Email
		}
		profiles = append(profiles, p)
	}

	httpjson.Respond(w, http.StatusOK, groupDetail{Group: g, MemberProfiles: profiles})
}

/*─────────────────────────────────────────────────────────────────────────────*
| PATCH /groups/{groupID}                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

type editRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleEdit updates name and description. Any member can edit; only
// delete is restricted to admins.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	g, uid, ok := h.loadGroupForMember(w, r)
	if !ok {
		return
	}
	if !grouppolicy.CanEdit(g, uid) {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: not a member of this group", apperr.ErrNotAuthorized))
		return
	}

	var req editRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	name := htmlsanitize.Strip(normalize.Name(req.Name))
	desc := htmlsanitize.Strip(normalize.Name(req.Description))
	if len(name) > inputval.MaxNameLen || len(desc) > inputval.MaxDescriptionLen {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: name or description too long", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Groups.UpdateInfo(ctx, g.ID, name, desc); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	updated, err := h.Groups.GetByID(ctx, g.ID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /groups/{groupID}                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDelete removes a group. Admin-only; the authorization check runs
// here because the store itself has no notion of roles. Recommendations
// scoped to the group are left in place.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	g, uid, ok := h.loadGroupForMember(w, r)
	if !ok {
		return
	}

	if !grouppolicy.CanDelete(g, uid) {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: only a group admin can delete the group", apperr.ErrNotAuthorized))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Groups.Delete(ctx, g.ID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("group deleted",
		zap.String("group_id", g.ID.Hex()),
		zap.String("deleted_by", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /groups/{groupID}/exit                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleExit removes the caller's membership. The last admin may exit;
// the group then has no admin until someone deletes it by other means.
func (h *Handler) HandleExit(w http.ResponseWriter, r *http.Request) {
	g, uid, ok := h.loadGroupForMember(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Groups.RemoveMember(ctx, g.ID, uid); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("user exited group",
		zap.String("group_id", g.ID.Hex()),
		zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, map[string]string{"status": "exited"})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// loadGroupForMember parses {groupID}, loads the group, and verifies the
// caller belongs to it. On failure the error response has already been
// written and ok is false.
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
	if !grouppolicy.CanView(g, uid) {
		httpjson.Error(w, h.Log, fmt.Errorf("%w: not a member of this group", apperr.ErrNotAuthorized))
		return models.Group{}, primitive.NilObjectID, false
	}
	return g, uid, true
}
