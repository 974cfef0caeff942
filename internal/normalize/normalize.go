// Package normalize converts raw backend field shapes into the canonical
// values the console branches on. The core API stores locale data with
// inconsistent accents and casing ("Halcónfit", "HALCONFIT", "halconfit"),
// so every enum comparison goes through Fold first.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips diacritics via NFD decomposition, so accented
// backend variants compare equal to their canonical spelling.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// Transform only fails on malformed input; fall back to the raw
		// string rather than dropping the value.
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// EqualFold reports whether a and b are the same value ignoring case and
// accents.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Pick returns the canonical spelling from candidates matching raw under
// Fold, or fallback when raw matches none of them. Unknown backend values
// never propagate past this point.
func Pick(raw, fallback string, candidates ...string) string {
	folded := Fold(raw)
	for _, c := range candidates {
		if Fold(c) == folded {
			return c
		}
	}
	return fallback
}

// Coalesce returns the first non-empty string, defaulting to "".
func Coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
