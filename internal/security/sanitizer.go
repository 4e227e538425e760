// Package security strips markup from user supplied text before it is stored.
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer removes every HTML element from free text fields.
// It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds a Sanitizer on bluemonday's strict policy.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// maxPasses bounds the decode and sanitize rounds for nested entity encodings.
const maxPasses = 4

// Text strips tags from s and returns plain text. Entities are decoded
// before the policy runs, so entity-encoded markup is stripped as markup;
// rounds repeat until the text is stable.
func (s *Sanitizer) Text(in string) string {
	if in == "" {
		return ""
	}
	out := in
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(s.policy.Sanitize(html.UnescapeString(out)))
		if next == out {
			return strings.TrimSpace(out)
		}
		out = next
	}
	// Still changing: drop anything that could open a tag.
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(out))
}
