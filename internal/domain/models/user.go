// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an authenticated identity. Movie watch state is embedded on the
// user document as two arrays so a single UpdateOne can move an entry
// between them without a visible intermediate state.
//
// NOTE:
//   - Group membership is not embedded on User. Groups carry their own
//     members array; use the groups collection to discover a user's groups.
//   - Watchlist and WatchedMovies are disjoint by movie_id; the watchlist
//     store enforces that with guarded updates.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	EmailCI    string             `bson:"email_ci" json:"-"`
	AuthMethod string             `bson:"auth_method" json:"auth_method"` // password | google

	// Set only for auth_method == "password".
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`

	// Stable Google subject id, set only for auth_method == "google".
	GoogleID string `bson:"google_id,omitempty" json:"-"`

	Watchlist     []WatchEntry `bson:"watchlist,omitempty" json:"-"`
	WatchedMovies []WatchEntry `bson:"watched_movies,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
