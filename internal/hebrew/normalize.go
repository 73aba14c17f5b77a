package hebrew

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Code points with special handling.
const (
	diacriticFirst = '\u0591'
	diacriticLast  = '\u05C7'

	Maqaf     = '\u05BE' // word-joining hyphen
	Geresh    = '\u05F3' // abbreviation and single-letter numeral mark
	Gershayim = '\u05F4' // acronym and multi-letter numeral mark
)

// finalForms maps each word-final letter glyph to its base letter.
var finalForms = map[rune]rune{
	'ך': 'כ',
	'ם': 'מ',
	'ן': 'נ',
	'ף': 'פ',
	'ץ': 'צ',
}

// IsDiacritic reports whether r is a Hebrew vowel point or cantillation mark.
// Maqaf sits inside the same block but is a hyphen, not a mark, so it is
// excluded here and replaced with a space by Normalize instead.
func IsDiacritic(r rune) bool {
	return r >= diacriticFirst && r <= diacriticLast && r != Maqaf
}

// IsFinalForm reports whether r is one of the five word-final letter glyphs.
func IsFinalForm(r rune) bool {
	_, ok := finalForms[r]
	return ok
}

// BaseLetter returns the base letter for a final form, or r unchanged.
func BaseLetter(r rune) rune {
	if base, ok := finalForms[r]; ok {
		return base
	}
	return r
}

func dropped(r rune) bool {
	return IsDiacritic(r) || r == Geresh || r == Gershayim
}

func fold(r rune) rune {
	switch {
	case r == Maqaf:
		return ' '
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A')
	}
	return BaseLetter(r)
}

// newPipeline builds the transformer chain. Chains buffer internally, so one
// is built per call rather than shared.
func newPipeline() transform.Transformer {
	return transform.Chain(
		norm.NFC,
		runes.Remove(runes.Predicate(dropped)),
		runes.Map(fold),
		norm.NFC,
	)
}

// Normalize returns the canonical comparison form of text.
//
// Normalize never fails; the empty string normalizes to itself.
// Normalize(Normalize(x)) == Normalize(x) for every x.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	out, _, _ := transform.String(newPipeline(), text)
	return strings.TrimSpace(out)
}
