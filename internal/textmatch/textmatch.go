// Package textmatch compares free-text answers ignoring case, accents and
// surrounding or repeated whitespace.
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds s into its comparison form: diacritics stripped,
// case folded, whitespace collapsed to single spaces.
func Normalize(s string) string {
	// Transformers carry state, so build a fresh chain per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(stripped)
	return strings.Join(strings.Fields(folded), " ")
}

// Equal reports whether a and b match after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// EqualTokens reports whether two token sequences match element-wise.
func EqualTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
