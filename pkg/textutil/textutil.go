// Package textutil provides the diacritic-folding and case-folding primitives
// shared by every other matching package: the legal-form cleaner/retriever,
// the word comparator, the corporate name matcher, and the city matcher all
// normalize through these functions rather than rolling their own.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// specialCharMappingExtended folds German umlauts and Nordic letters to their
// digraph expansions (Ä->AE, Ø->OE, ß->SS).
var specialCharMappingExtended = map[string]string{
	"Ä": "AE",
	"Ö": "OE",
	"Ü": "UE",
	"ß": "SS",
	"Æ": "AE",
	"Ø": "OE",
}

// specialCharMappingSimple folds the same letters to a single base character
// instead of a digraph (Ä->A, Ø->O), plus a couple of Central-European
// letters that Unicode NFD decomposition doesn't split into base+mark.
var specialCharMappingSimple = map[string]string{
	"Ä": "A",
	"Ö": "O",
	"Ü": "U",
	"ß": "SS",
	"Æ": "A",
	"Ø": "O",
	"Ł": "L",
	"Đ": "D",
}

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)

func replaceSpecialChars(s string, mapping map[string]string) string {
	for from, to := range mapping {
		s = strings.ReplaceAll(s, from, to)
	}
	return s
}

// decomposeAndStripMarks performs NFD canonical decomposition and drops every
// combining mark (Unicode category Mn), the Go equivalent of Java's
// `Normalizer.normalize(s, NFD)` + `replaceAll("\\p{M}", "")`.
func decomposeAndStripMarks(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func removeNonAlphanumeric(s string) string {
	return nonAlphanumeric.ReplaceAllString(s, "")
}

// NormalizeStripped upper-cases s, folds special characters with the
// extended mapping, strips combining marks, and removes everything outside
// {A-Z, 0-9}.
func NormalizeStripped(s string) string {
	upper := strings.ToUpper(s)
	extended := replaceSpecialChars(upper, specialCharMappingExtended)
	decomposed := decomposeAndStripMarks(extended)
	return removeNonAlphanumeric(decomposed)
}

// NormalizePreserveSpecials is NormalizeStripped without the final
// alphanumeric-only filter: non-alphabetic characters (spaces, punctuation)
// are retained because downstream token-shape comparisons need them.
func NormalizePreserveSpecials(s string) string {
	upper := strings.ToUpper(s)
	extended := replaceSpecialChars(upper, specialCharMappingExtended)
	return decomposeAndStripMarks(extended)
}

// EqualDiacriticInsensitive reports whether a and b denote the same string
// once diacritics are folded, trying all three normalization policies (raw
// NFD strip, extended map, simple map) against each other. Nil-safety
// mirrors the Java original: two empty strings are equal, one empty and one
// non-empty are not.
func EqualDiacriticInsensitive(a, b string) bool {
	aUpper := strings.ToUpper(a)
	bUpper := strings.ToUpper(b)

	aRaw := removeNonAlphanumeric(decomposeAndStripMarks(aUpper))
	aExt := removeNonAlphanumeric(decomposeAndStripMarks(replaceSpecialChars(aUpper, specialCharMappingExtended)))
	aSimple := removeNonAlphanumeric(decomposeAndStripMarks(replaceSpecialChars(aUpper, specialCharMappingSimple)))

	bRaw := removeNonAlphanumeric(decomposeAndStripMarks(bUpper))
	bExt := removeNonAlphanumeric(decomposeAndStripMarks(replaceSpecialChars(bUpper, specialCharMappingExtended)))
	bSimple := removeNonAlphanumeric(decomposeAndStripMarks(replaceSpecialChars(bUpper, specialCharMappingSimple)))

	for _, x := range [3]string{aRaw, aExt, aSimple} {
		for _, y := range [3]string{bRaw, bExt, bSimple} {
			if x == y {
				return true
			}
		}
	}
	return false
}

// IsEmptyOrBlank reports whether s is empty after trimming whitespace.
// Callers generally treat this as "no opinion" for any pair involving it
// rather than a hard mismatch.
func IsEmptyOrBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
