// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership role values.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Group is a named circle of users who recommend movies to each other.
//
// Members are embedded on the group document (not a separate collection):
// the membership set is small, is always read together with the group, and
// guarded $push/$pull updates keep concurrent joins and exits commutative
// at the document level.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`

	// 6-char uppercase token, unique across all groups (unique index;
	// the store re-rolls on collision).
	InviteCode string `bson:"invite_code" json:"invite_code"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	Members   []Membership       `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Membership joins a user to a group. At most one per user per group;
// role is a scalar ("admin" | "member").
type Membership struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role     string             `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}

// Member returns the membership for the given user, if present.
func (g Group) Member(userID primitive.ObjectID) (Membership, bool) {
	for _, m := range g.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Membership{}, false
}

// HasMember reports whether the user belongs to the group.
func (g Group) HasMember(userID primitive.ObjectID) bool {
	_, ok := g.Member(userID)
	return ok
}

// IsAdmin reports whether the user holds the admin role in the group.
func (g Group) IsAdmin(userID primitive.ObjectID) bool {
	m, ok := g.Member(userID)
	return ok && m.Role == RoleAdmin
}
