// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/reelhub/reelhub/internal/app/system/invitecode"
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
	ErrAlreadyMember = fmt.Errorf("%w: user is already a member of this group", apperr.ErrAlreadyMember)
	ErrNotMember     = fmt.Errorf("%w: user is not a member of this group", apperr.ErrNotFound)
	ErrCodeExhausted = fmt.Errorf("%w: could not generate a unique invite code", apperr.ErrConflict)
)

// codeAttempts bounds invite-code re-rolls when a freshly generated code
// collides with an existing group.
const codeAttempts = 5

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, fmt.Errorf("%w: group", apperr.ErrNotFound)
		}
		return models.Group{}, err
	}
	return g, nil
}

// GetByInviteCode resolves a group from its invite code. The caller is
// expected to normalize the code to uppercase first.
func (s *Store) GetByInviteCode(ctx context.Context, code string) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"invite_code": code}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, fmt.Errorf("%w: no group with that invite code", apperr.ErrNotFound)
		}
		return models.Group{}, err
	}
	return g, nil
}

// ListForUser returns every group the user belongs to, newest first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"members.user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Create inserts a new group with the creator seeded as its sole admin
// member. The invite code is generated here and re-rolled a bounded
// number of times if it collides with an existing group.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.Members = []models.Membership{
		{UserID: g.CreatedBy, Role: models.RoleAdmin, JoinedAt: now},
	}
	g.CreatedAt = now
	g.UpdatedAt = now

	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := invitecode.New()
		if err != nil {
			return models.Group{}, err
		}
		g.InviteCode = code

		_, err = s.c.InsertOne(ctx, g)
		if err == nil {
			return g, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.Group{}, err
		}
	}
	return models.Group{}, ErrCodeExhausted
}

// AddMember appends a member-role membership. The presence guard in the
// filter makes concurrent joins commutative: the push happens only when
// the user is not already in the members array.
func (s *Store) AddMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	m := models.Membership{UserID: userID, Role: models.RoleMember, JoinedAt: time.Now().UTC()}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": groupID, "members.user_id": bson.M{"$ne": userID}},
		bson.M{
			"$push": bson.M{"members": m},
			"$set":  bson.M{"updated_at": m.JoinedAt},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the group is gone or the user is already in it.
		if _, err := s.GetByID(ctx, groupID); err != nil {
			return err
		}
		return ErrAlreadyMember
	}
	return nil
}

// RemoveMember pulls the user's membership from the group. A member can
// always exit, including the last admin; the group is left without an
// admin in that case. The presence guard lives in the filter so the
// updated_at bump cannot mask a pull that removed nothing.
func (s *Store) RemoveMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": groupID, "members.user_id": userID},
		bson.M{
			"$pull": bson.M{"members": bson.M{"user_id": userID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the group is gone or the user is not in it.
		if _, err := s.GetByID(ctx, groupID); err != nil {
			return err
		}
		return ErrNotMember
	}
	return nil
}

// UpdateInfo changes name and description.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc string) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	// Description can be cleared.
	set["description"] = desc

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: group", apperr.ErrNotFound)
	}
	return nil
}

// Delete removes a group by ID. Returns the number of documents deleted
// (0 or 1). Recommendations scoped to the group are not touched.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
