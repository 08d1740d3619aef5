// internal/domain/models/watchentry.go
package models

import "time"

// WatchEntry is a movie in a user's personal lists. A given movie_id lives
// in exactly one of the two arrays on the user document (watchlist or
// watched_movies) at any time.
type WatchEntry struct {
	MovieID string `bson:"movie_id" json:"movie_id"`
	Title   string `bson:"title" json:"title"`
	Poster  string `bson:"poster" json:"poster"`
	Type    string `bson:"type" json:"type"`
	Genre   string `bson:"genre" json:"genre"`
	Rating  string `bson:"rating" json:"rating"`
	Year    string `bson:"year" json:"year"`
	Runtime string `bson:"runtime" json:"runtime"`
	Plot    string `bson:"plot" json:"plot"`

	AddedAt   time.Time `bson:"added_at" json:"added_at"`
	WatchedAt time.Time `bson:"watched_at,omitempty" json:"watched_at,omitzero"`
}
