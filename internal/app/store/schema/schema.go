// Package schema creates the MongoDB indexes the stores rely on. It is
// called at startup and by the test harness so store behavior (unique
// email, unique invite code, one recommendation per group+movie) holds
// in both places.
package schema

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates all required indexes. Creation is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetPartialFilterExpression(
				bson.M{"google_id": bson.M{"$exists": true}}),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	groups := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "invite_code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "members.user_id", Value: 1}},
		},
	}
	if _, err := db.Collection("groups").Indexes().CreateMany(ctx, groups); err != nil {
		return fmt.Errorf("create group indexes: %w", err)
	}

	recs := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "movie_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "movie_id", Value: 1}, {Key: "recommended_by", Value: 1}},
		},
	}
	if _, err := db.Collection("recommendations").Indexes().CreateMany(ctx, recs); err != nil {
		return fmt.Errorf("create recommendation indexes: %w", err)
	}

	return nil
}
