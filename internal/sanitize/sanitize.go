// Package sanitize cleans user-supplied text before it is stored or exported.
package sanitize

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Text strips markup and unprintable characters and trims surrounding space.
// Entities escaped by the policy are decoded back, so "&" survives as is.
func Text(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' {
			return r
		}

		return -1
	}, s)

	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// Cell guards a CSV cell against formula injection by quoting values that a
// spreadsheet would evaluate.
func Cell(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}

	switch trimmed[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}

	return s
}
