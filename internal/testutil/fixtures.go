package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/reelhub/reelhub/internal/app/system/invitecode"
	"github.com/reelhub/reelhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Calls stack: an existing route context is reused so multiple params
// can be attached to one request.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a password-auth test user with empty watch lists.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		Email:      email,
		EmailCI:    text.Fold(email),
		AuthMethod: "password",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateGroup creates a test group whose creator is its sole admin.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, creatorID primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test group description",
		InviteCode:  randomInviteCode(f.t),
		CreatedBy:   creatorID,
		Members: []models.Membership{
			{UserID: creatorID, Role: models.RoleAdmin, JoinedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("groups").InsertOne(ctx, group)
	if err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}

	return group
}

// AddGroupMember appends a member with the given role to a group.
func (f *Fixtures) AddGroupMember(ctx context.Context, groupID, userID primitive.ObjectID, role string) {
	f.t.Helper()

	m := models.Membership{UserID: userID, Role: role, JoinedAt: time.Now().UTC()}
	_, err := f.db.Collection("groups").UpdateByID(ctx, groupID,
		primitive.M{"$push": primitive.M{"members": m}})
	if err != nil {
		f.t.Fatalf("failed to add test group member: %v", err)
	}
}

// CreateRecommendation inserts a recommendation for a movie in a group,
// recommended by the given users.
func (f *Fixtures) CreateRecommendation(ctx context.Context, groupID primitive.ObjectID, movieID, title, genre string, by ...primitive.ObjectID) models.Recommendation {
	f.t.Helper()

	rec := models.Recommendation{
		ID:            primitive.NewObjectID(),
		GroupID:       groupID,
		MovieID:       movieID,
		RecommendedBy: by,
		RecommendedAt: time.Now().UTC(),
		Movie: models.MovieSnapshot{
			Title:  title,
			Genre:  genre,
			Type:   "movie",
			Year:   "2005",
			Rating: "8.0",
		},
	}

	_, err := f.db.Collection("recommendations").InsertOne(ctx, rec)
	if err != nil {
		f.t.Fatalf("failed to create test recommendation: %v", err)
	}

	return rec
}

// WatchEntry builds a minimal watchlist entry for a movie id.
func WatchEntry(movieID, title string) models.WatchEntry {
	return models.WatchEntry{
		MovieID: movieID,
		Title:   title,
		Type:    "movie",
		Genre:   "Drama",
		Year:    "2005",
		AddedAt: time.Now().UTC(),
	}
}

func randomInviteCode(t *testing.T) string {
	t.Helper()
	code, err := invitecode.New()
	if err != nil {
		t.Fatalf("failed to generate invite code: %v", err)
	}
	return code
}
