package catalog

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes an exercise name for matching: lowercase, trim,
// punctuation stripped to spaces, internal whitespace collapsed. Matching
// always compares normalized forms, so "Press-Ups", "press ups" and
// " PRESS UPS " are the same name.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
