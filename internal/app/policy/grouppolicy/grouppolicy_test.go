package grouppolicy_test

import (
	"testing"
	"time"

	"github.com/reelhub/reelhub/internal/app/policy/grouppolicy"
	"github.com/reelhub/reelhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPredicates(t *testing.T) {
	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()

	g := models.Group{
		ID:   primitive.NewObjectID(),
		Name: "Movie Night",
		Members: []models.Membership{
			{UserID: admin, Role: models.RoleAdmin, JoinedAt: time.Now()},
			{UserID: member, Role: models.RoleMember, JoinedAt: time.Now()},
		},
	}

	tests := []struct {
		name  string
		check func(models.Group, primitive.ObjectID) bool
		user  primitive.ObjectID
		want  bool
	}{
		{"view/admin", grouppolicy.CanView, admin, true},
		{"view/member", grouppolicy.CanView, member, true},
		{"view/outsider", grouppolicy.CanView, outsider, false},
		{"edit/member", grouppolicy.CanEdit, member, true},
		{"edit/outsider", grouppolicy.CanEdit, outsider, false},
		{"recommend/member", grouppolicy.CanRecommend, member, true},
		{"recommend/outsider", grouppolicy.CanRecommend, outsider, false},
		{"delete/admin", grouppolicy.CanDelete, admin, true},
		{"delete/member", grouppolicy.CanDelete, member, false},
		{"delete/outsider", grouppolicy.CanDelete, outsider, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.check(g, tc.user); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}
