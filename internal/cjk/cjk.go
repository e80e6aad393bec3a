// Package cjk provides the East Asian text helpers shared by the classifier,
// the table layout engine and the punctuation normalizer.
package cjk

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// FullWidthSpace is the ideographic space used for footer padding and
// recognized as blank by the paragraph classifier.
const FullWidthSpace = '　'

// Weight returns the visual-width score of s: East Asian wide and fullwidth
// runes count 1.0, everything else (Latin, digits, half-width punctuation)
// counts 0.5. Used for content-weighted table column sizing.
func Weight(s string) float64 {
	var total float64
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			total += 1.0
		default:
			total += 0.5
		}
	}
	return total
}

// HasHan reports whether s contains at least one Han-script rune.
func HasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// AllHan reports whether s is non-empty and consists entirely of Han-script
// runes.
func AllHan(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.Is(unicode.Han, r) {
			return false
		}
	}
	return true
}

// Widen returns the full-width form of r when Unicode defines one
// ('(' → '（', ':' → '：'), and r itself otherwise.
func Widen(r rune) rune {
	s := width.Widen.String(string(r))
	w, _ := utf8.DecodeRuneInString(s)
	if w == utf8.RuneError {
		return r
	}
	return w
}

// Blank reports whether s contains nothing but spacing, including the
// full-width space.
func Blank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
