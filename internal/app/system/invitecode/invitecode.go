// Package invitecode generates group invite tokens: 6 characters drawn
// from the uppercase base36 alphabet. Uniqueness is probabilistic; the
// group store carries a unique index and re-rolls on collision.
package invitecode

import (
	"crypto/rand"
	"fmt"
)

// Length is the fixed token length.
const Length = 6

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// New returns a fresh invite token.
func New() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("invitecode: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
