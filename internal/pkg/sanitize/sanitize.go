package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans user supplied text before it is stored. It is safe for
// concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New returns a Sanitizer that keeps the markup bluemonday considers safe for
// user generated content and drops everything else (scripts, event handlers).
func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.UGCPolicy()}
}

// Text sanitizes s and trims surrounding whitespace.
func (s *Sanitizer) Text(v string) string {
	return strings.TrimSpace(s.policy.Sanitize(v))
}

// Optional sanitizes *v, keeping nil as nil.
func (s *Sanitizer) Optional(v *string) *string {
	if v == nil {
		return nil
	}
	out := s.Text(*v)
	return &out
}
