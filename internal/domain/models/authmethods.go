// internal/domain/models/authmethods.go
package models

// Auth method values stored in User.AuthMethod. An account authenticates
// one way; a password account that later signs in with Google keeps
// "password" and gains a linked GoogleID.
const (
	AuthMethodPassword = "password"
	AuthMethodGoogle   = "google"
)

// IsValidAuthMethod checks if a value is a supported auth method.
func IsValidAuthMethod(value string) bool {
	return value == AuthMethodPassword || value == AuthMethodGoogle
}
