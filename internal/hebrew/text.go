package hebrew

import "strings"

// IsLetter reports whether r is a Hebrew letter (א..ת, final forms included).
func IsLetter(r rune) bool {
	return r >= 'א' && r <= 'ת'
}

// IsHebrewText reports whether s contains at least one Hebrew letter.
func IsHebrewText(s string) bool {
	return strings.IndexFunc(s, IsLetter) >= 0
}

// Words returns the maximal runs of Hebrew letters in s, in order.
// Points and marks inside a word split it, so callers normally pass
// normalized text.
func Words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !IsLetter(r) })
}

// CountWords returns len(Words(s)).
func CountWords(s string) int {
	return len(Words(s))
}
