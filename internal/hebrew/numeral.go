package hebrew

import (
	"strconv"
	"strings"
)

var ones = []rune{0, 'א', 'ב', 'ג', 'ד', 'ה', 'ו', 'ז', 'ח', 'ט'}
var tens = []rune{0, 'י', 'כ', 'ל', 'מ', 'נ', 'ס', 'ע', 'פ', 'צ'}
var hundreds = []rune{0, 'ק', 'ר', 'ש', 'ת'}

var letterValues = map[rune]int{
	'א': 1, 'ב': 2, 'ג': 3, 'ד': 4, 'ה': 5, 'ו': 6, 'ז': 7, 'ח': 8, 'ט': 9,
	'י': 10, 'כ': 20, 'ל': 30, 'מ': 40, 'נ': 50, 'ס': 60, 'ע': 70, 'פ': 80, 'צ': 90,
	'ק': 100, 'ר': 200, 'ש': 300, 'ת': 400,
}

// Numeral renders n (1..999) in Hebrew letters. A single letter is followed
// by geresh, several letters carry gershayim before the last one. Fifteen
// and sixteen are written ט״ו and ט״ז. Values outside 1..999 are rendered
// in decimal.
func Numeral(n int) string {
	if n < 1 || n > 999 {
		return strconv.Itoa(n)
	}

	var letters []rune
	h := n / 100
	// 500..900 are written with repeated ת plus the remainder.
	for h > 4 {
		letters = append(letters, 'ת')
		h -= 4
	}
	if h > 0 {
		letters = append(letters, hundreds[h])
	}

	rest := n % 100
	switch rest {
	case 15:
		letters = append(letters, 'ט', 'ו')
	case 16:
		letters = append(letters, 'ט', 'ז')
	default:
		if t := rest / 10; t > 0 {
			letters = append(letters, tens[t])
		}
		if o := rest % 10; o > 0 {
			letters = append(letters, ones[o])
		}
	}

	if len(letters) == 1 {
		return string(letters) + string(Geresh)
	}
	last := len(letters) - 1
	return string(letters[:last]) + string(Gershayim) + string(letters[last])
}

// ParseNumeral sums the letter values in s. Geresh, gershayim and any
// non-letter runes are ignored; final forms count as their base letter.
// Returns 0 if s holds no Hebrew letters.
func ParseNumeral(s string) int {
	total := 0
	for _, r := range s {
		total += letterValues[BaseLetter(r)]
	}
	return total
}

// ChapterLabel formats a chapter number the way the corpus labels chapters,
// e.g. ChapterLabel(42) == "סימן מ״ב".
func ChapterLabel(n int) string {
	return strings.Join([]string{"סימן", Numeral(n)}, " ")
}
