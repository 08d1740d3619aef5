// Package normalize provides input normalization helpers used by handlers
// before validation and persistence.
package normalize

import "strings"

// Email trims whitespace and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace from a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// InviteCode trims whitespace and uppercases an invite code so lookups
// are case-insensitive against the stored uppercase token.
func InviteCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// MovieID trims whitespace from an external movie id (e.g. "tt0111161").
func MovieID(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam trims whitespace from a query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Genre trims a genre filter value. "all" (any case) means no filter and
// normalizes to the empty string.
func Genre(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}
