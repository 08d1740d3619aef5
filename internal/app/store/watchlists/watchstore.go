// internal/app/store/watchlists/watchstore.go
//
// The watchlist and watched arrays live embedded on the user document,
// so every transition between them is one UpdateOne with a presence
// guard in the filter. There is never a visible intermediate state
// where a movie is in both lists or neither.
package watchstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reelhub/reelhub/internal/domain/apperr"
	"github.com/reelhub/reelhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrAlreadyListed = fmt.Errorf("%w: movie is already on a list", apperr.ErrConflict)
	ErrNotListed     = fmt.Errorf("%w: movie is not on the list", apperr.ErrNotFound)
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Lists returns the user's watchlist and watched arrays.
func (s *Store) Lists(ctx context.Context, userID primitive.ObjectID) (watchlist, watched []models.WatchEntry, err error) {
	opts := options.FindOne().SetProjection(bson.M{"watchlist": 1, "watched_movies": 1})
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, fmt.Errorf("%w: user", apperr.ErrNotFound)
		}
		return nil, nil, err
	}
	if u.Watchlist == nil {
		u.Watchlist = []models.WatchEntry{}
	}
	if u.WatchedMovies == nil {
		u.WatchedMovies = []models.WatchEntry{}
	}
	return u.Watchlist, u.WatchedMovies, nil
}

// Add puts the entry on the watchlist. The filter rejects the write when
// the movie is already on either list, so a duplicate add (including a
// concurrent one) surfaces as ErrAlreadyListed instead of a second copy.
func (s *Store) Add(ctx context.Context, userID primitive.ObjectID, entry models.WatchEntry) error {
	entry.AddedAt = time.Now().UTC()
	entry.WatchedAt = time.Time{}

	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":                     userID,
			"watchlist.movie_id":      bson.M{"$ne": entry.MovieID},
			"watched_movies.movie_id": bson.M{"$ne": entry.MovieID},
		},
		bson.M{
			"$push": bson.M{"watchlist": entry},
			"$set":  bson.M{"updated_at": entry.AddedAt},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if err := s.userExists(ctx, userID); err != nil {
			return err
		}
		return ErrAlreadyListed
	}
	return nil
}

// MarkWatched moves the movie from the watchlist to the watched list.
func (s *Store) MarkWatched(ctx context.Context, userID primitive.ObjectID, movieID string) error {
	entry, err := s.findEntry(ctx, userID, "watchlist", movieID)
	if err != nil {
		return err
	}
	entry.WatchedAt = time.Now().UTC()

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "watchlist.movie_id": movieID},
		bson.M{
			"$pull": bson.M{"watchlist": bson.M{"movie_id": movieID}},
			"$push": bson.M{"watched_movies": entry},
			"$set":  bson.M{"updated_at": entry.WatchedAt},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotListed
	}
	return nil
}

// MarkUnwatched moves the movie back from the watched list to the
// watchlist, clearing its watched timestamp.
func (s *Store) MarkUnwatched(ctx context.Context, userID primitive.ObjectID, movieID string) error {
	entry, err := s.findEntry(ctx, userID, "watched_movies", movieID)
	if err != nil {
		return err
	}
	entry.WatchedAt = time.Time{}

	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "watched_movies.movie_id": movieID},
		bson.M{
			"$pull": bson.M{"watched_movies": bson.M{"movie_id": movieID}},
			"$push": bson.M{"watchlist": entry},
			"$set":  bson.M{"updated_at": now},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotListed
	}
	return nil
}

// Remove drops the movie from one list only; fromWatched selects which.
// The filter requires the movie to be on the selected list, so removing
// an absent movie misses entirely instead of being reported as modified
// by the updated_at bump.
func (s *Store) Remove(ctx context.Context, userID primitive.ObjectID, movieID string, fromWatched bool) error {
	field := "watchlist"
	if fromWatched {
		field = "watched_movies"
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, field + ".movie_id": movieID},
		bson.M{
			"$pull": bson.M{field: bson.M{"movie_id": movieID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if err := s.userExists(ctx, userID); err != nil {
			return err
		}
		return ErrNotListed
	}
	return nil
}

// findEntry reads one entry out of the named array by movie id.
func (s *Store) findEntry(ctx context.Context, userID primitive.ObjectID, field, movieID string) (models.WatchEntry, error) {
	opts := options.FindOne().SetProjection(bson.M{
		field: bson.M{"$elemMatch": bson.M{"movie_id": movieID}},
	})
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.WatchEntry{}, fmt.Errorf("%w: user", apperr.ErrNotFound)
		}
		return models.WatchEntry{}, err
	}

	list := u.Watchlist
	if field == "watched_movies" {
		list = u.WatchedMovies
	}
	if len(list) == 0 {
		return models.WatchEntry{}, ErrNotListed
	}
	return list[0], nil
}

func (s *Store) userExists(ctx context.Context, userID primitive.ObjectID) error {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: user", apperr.ErrNotFound)
	}
	return nil
}
