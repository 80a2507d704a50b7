package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips every tag from user supplied text and trims surrounding space.
// Entities are decoded before and after stripping so escaped markup is
// removed too and plain ampersands survive unchanged.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(html.UnescapeString(s))))
}

// Ptr applies Text to an optional value.
func Ptr(s *string) *string {
	if s == nil {
		return nil
	}
	out := Text(*s)
	return &out
}
