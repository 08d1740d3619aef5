// internal/domain/models/recommendation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recommendation is a (group, movie) pair annotated with the set of users
// who recommended it. Exactly one document per (group_id, movie_id),
// enforced by a unique index; the store grows/shrinks recommended_by with
// $addToSet/$pull and deletes the document when the set empties.
type Recommendation struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`

	// External movie id (IMDb id, e.g. "tt0111161").
	MovieID string `bson:"movie_id" json:"movie_id"`

	RecommendedBy []primitive.ObjectID `bson:"recommended_by" json:"recommended_by"`
	RecommendedAt time.Time            `bson:"recommended_at" json:"recommended_at"`

	// Snapshot captured at recommend time; never re-fetched, staleness is
	// accepted.
	Movie MovieSnapshot `bson:"movie" json:"movie"`
}

// MovieSnapshot is the denormalized movie metadata stored alongside a
// recommendation. Genre is the comma-joined genre string as returned by
// the movie lookup service ("Crime, Drama").
type MovieSnapshot struct {
	Title  string `bson:"title" json:"title"`
	Poster string `bson:"poster" json:"poster"`
	Year   string `bson:"year" json:"year"`
	Genre  string `bson:"genre" json:"genre"`
	Rating string `bson:"rating" json:"rating"`
	Plot   string `bson:"plot" json:"plot"`
	Type   string `bson:"type" json:"type"`
}

// RecommendedBySet returns the recommender ids as a set.
func (r Recommendation) RecommendedBySet() map[primitive.ObjectID]struct{} {
	set := make(map[primitive.ObjectID]struct{}, len(r.RecommendedBy))
	for _, id := range r.RecommendedBy {
		set[id] = struct{}{}
	}
	return set
}
