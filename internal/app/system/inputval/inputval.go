// Package inputval provides input validation helpers for handler-level
// checks. Handlers normalize first (see the normalize package), then
// validate, then persist.
package inputval

import "regexp"

// Field length limits. Requests exceeding them are rejected with a
// validation error before any store call.
const (
	MaxNameLen        = 200
	MaxDescriptionLen = 2000
	MinPasswordLen    = 8
)

// emailRe is a pragmatic RFC 5322 subset: dot-atom local part, at least
// one label in the domain. Rejects leading/trailing/consecutive dots.
var emailRe = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(\.[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*@[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?)*$`)

// IsValidEmail reports whether s looks like a deliverable email address.
func IsValidEmail(s string) bool {
	if s == "" || len(s) > 254 {
		return false
	}
	return emailRe.MatchString(s)
}

// inviteCodeRe matches the 6-char uppercase base36 invite token.
var inviteCodeRe = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// IsValidInviteCode reports whether s is a well-formed invite code.
// Callers should normalize with normalize.InviteCode first.
func IsValidInviteCode(s string) bool {
	return inviteCodeRe.MatchString(s)
}

// movieIDRe matches IMDb-style external ids ("tt" + 7..10 digits).
var movieIDRe = regexp.MustCompile(`^tt\d{7,10}$`)

// IsValidMovieID reports whether s is a well-formed external movie id.
func IsValidMovieID(s string) bool {
	return movieIDRe.MatchString(s)
}
