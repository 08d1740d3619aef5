// internal/domain/apperr/apperr.go

// Package apperr defines the application error taxonomy. Stores and
// collaborator clients wrap these sentinels with context via fmt.Errorf
// ("%w"); the HTTP layer maps them to status codes with errors.Is.
package apperr

import "errors"

var (
	// ErrValidation marks malformed input (empty group name, bad email).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an unresolved invite code, group, user, or movie id.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthorized marks a non-admin attempting an admin-only action.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrAlreadyMember marks a join attempt by an existing member.
	// Surfaced as an error rather than an idempotent no-op.
	ErrAlreadyMember = errors.New("already a member")

	// ErrConflict marks a duplicate-creation race or an exhausted
	// invite-code re-roll.
	ErrConflict = errors.New("conflict")

	// ErrRemote marks a collaborator that is unreachable or returned a
	// failure. Never retried silently.
	ErrRemote = errors.New("remote service failure")
)
