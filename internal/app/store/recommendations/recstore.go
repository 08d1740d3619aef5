// internal/app/store/recommendations/recstore.go
package recstore

import (
	"context"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("recommendations")}
}

// Recommend adds userID to the recommender set for (groupID, movieID),
// creating the document with the movie snapshot on first recommend.
// Adding an id already in the set is a no-op, so the call is idempotent.
//
// The upsert races against the unique (group_id, movie_id) index when
// two first-recommenders arrive together; the loser retries once, which
// then takes the $addToSet path against the winner's document.
func (s *Store) Recommend(ctx context.Context, groupID primitive.ObjectID, movie models.MovieSnapshot, movieID string, userID primitive.ObjectID) error {
	filter := bson.M{"group_id": groupID, "movie_id": movieID}
	update := bson.M{
		"$addToSet": bson.M{"recommended_by": userID},
		"$setOnInsert": bson.M{
			"_id":            primitive.NewObjectID(),
			"recommended_at": time.Now().UTC(),
			"movie":          movie,
		},
	}

	for attempt := 0; attempt < 2; attempt++ {
		_, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err == nil {
			return nil
		}
		if !wafflemongo.IsDup(err) {
			return err
		}
		// Regenerate the insert id for the retry; the existing document
		// wins and only the $addToSet applies.
		update["$setOnInsert"].(bson.M)["_id"] = primitive.NewObjectID()
	}
	return fmt.Errorf("%w: concurrent recommendation creation", apperr.ErrConflict)
}

// Unrecommend removes userID from the recommender set, then deletes the
// document if the set is now empty. The pull and the emptiness-guarded
// delete are separate single-document operations, each atomic; a
// concurrent recommend between them simply keeps the document alive.
func (s *Store) Unrecommend(ctx context.Context, groupID primitive.ObjectID, movieID string, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"group_id": groupID, "movie_id": movieID},
		bson.M{"$pull": bson.M{"recommended_by": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: recommendation", apperr.ErrNotFound)
	}

	_, err = s.c.DeleteOne(ctx, bson.M{
		"group_id":       groupID,
		"movie_id":       movieID,
		"recommended_by": bson.M{"$size": 0},
	})
	return err
}

// ListByGroup returns every recommendation in the group, newest first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Recommendation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "recommended_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.Recommendation
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// ListByMovieForUser returns the recommendations for a movie where the
// given user is among the recommenders, across all groups.
func (s *Store) ListByMovieForUser(ctx context.Context, movieID string, userID primitive.ObjectID) ([]models.Recommendation, error) {
	cur, err := s.c.Find(ctx, bson.M{"movie_id": movieID, "recommended_by": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.Recommendation
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// DeleteByGroup removes every recommendation belonging to the group and
// reports how many were deleted. Group deletion itself leaves
// recommendations in place; this is a cleanup operation for operators.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountsByGroup returns the number of recommendations per group for the
// given group ids.
func (s *Store) CountsByGroup(ctx context.Context, groupIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	counts := make(map[primitive.ObjectID]int64, len(groupIDs))
	if len(groupIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"group_id": bson.M{"$in": groupIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$group_id", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		GroupID primitive.ObjectID `bson:"_id"`
		Count   int64              `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.GroupID] = row.Count
	}
	return counts, nil
}
