// internal/app/policy/grouppolicy/grouppolicy.go
package grouppolicy

import (
	"github.com/reelhub/reelhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership is authoritative: every check reads the group's embedded
// member list, never the session.

// CanView reports whether the user may read the group, its member list,
// and its recommendations. Members only; there are no public groups.
func CanView(g models.Group, userID primitive.ObjectID) bool {
	return g.HasMember(userID)
}

// CanEdit reports whether the user may change the group's name and
// description. Any member can; editing is collaborative.
func CanEdit(g models.Group, userID primitive.ObjectID) bool {
	return g.HasMember(userID)
}

// CanRecommend reports whether the user may add to or retract from the
// group's recommendation pool.
func CanRecommend(g models.Group, userID primitive.ObjectID) bool {
	return g.HasMember(userID)
}

// CanDelete reports whether the user may delete the group outright.
// Admins only.
func CanDelete(g models.Group, userID primitive.ObjectID) bool {
	return g.IsAdmin(userID)
}
