// Package textutils canonicalizes free text so that merchant names and notes
// copied from different platforms compare equal regardless of full-width
// forms, stray invisible characters, spacing or case.
package textutils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var invisibleReplacer = strings.NewReplacer(
	"\u00a0", " ",
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
)

// Normalize returns the matching form of s: NFKC, invisible characters
// removed, whitespace runs collapsed to one space, trimmed, lower-cased.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(clean(s))
	// Lower-casing can produce characters that have a compatibility form.
	return collapse(norm.NFKC.String(s))
}

// NormalizePattern is Normalize without lower-casing. It is used for regular
// expressions, where lower-casing would turn escapes like \S or \D into
// different classes; case-insensitivity comes from the (?i) flag instead.
func NormalizePattern(s string) string {
	if s == "" {
		return ""
	}
	return clean(s)
}

func clean(s string) string {
	s = norm.NFKC.String(s)
	s = invisibleReplacer.Replace(s)
	return collapse(s)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
