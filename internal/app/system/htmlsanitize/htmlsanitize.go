// Package htmlsanitize strips HTML from user-supplied text before it is
// stored or echoed back in API responses. Group names, descriptions, and
// display names are plain text; any markup in them is hostile or
// accidental either way.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Strip removes all HTML elements and attributes from s and trims the
// result. Entity-encoded text survives ("AT&T" stays readable).
func Strip(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
