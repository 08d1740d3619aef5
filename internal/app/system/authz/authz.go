// Package authz resolves the current request identity into store-level
// types. Group-scoped authorization (member / admin checks) lives in
// policy/grouppolicy; this package only answers "who is calling?".
package authz

import (
	"net/http"

	"github.com/reelhub/reelhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the signed-in user's display name and ObjectID.
// ok is false when nobody is signed in or the session carries a
// malformed id (treated as not signed in rather than a server error).
func UserCtx(r *http.Request) (name string, uid primitive.ObjectID, ok bool) {
	u, found := auth.CurrentUser(r)
	if !found {
		return "", primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return "", primitive.NilObjectID, false
	}
	return u.Name, id, true
}
