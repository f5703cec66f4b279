// Package text holds the comparison and repair helpers applied to catalog text.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldASCII decomposes accented letters and drops everything outside ASCII,
// so "ção" becomes "cao" and stray marks or symbols disappear.
var foldASCII = transform.Chain(
	norm.NFD,
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// Normalize lower-cases s and strips diacritics for accent-insensitive comparison.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(foldASCII, strings.ToLower(s))
	if err != nil {
		return ""
	}
	return out
}
