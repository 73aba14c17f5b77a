// Package match compares strings in their normalized Hebrew form.
//
// All functions normalize both sides with hebrew.Normalize before comparing,
// hold no state, and are safe for concurrent use.
package match

import (
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/roach88/kitzur/internal/errs"
	"github.com/roach88/kitzur/internal/hebrew"
)

// DefaultThreshold is the similarity ratio Fuzzy callers use when they have
// no stronger opinion.
const DefaultThreshold = 0.8

// Exact reports whether a and b normalize to the same string.
func Exact(a, b string) bool {
	return hebrew.Normalize(a) == hebrew.Normalize(b)
}

// Contains reports whether the normalized query occurs inside the normalized
// candidate. The query is the needle; an empty query matches every candidate.
func Contains(query, candidate string) bool {
	return strings.Contains(hebrew.Normalize(candidate), hebrew.Normalize(query))
}

// Ratio returns the similarity of the normalized forms of a and b in [0,1].
//
// The ratio is 2·M/T where T is the combined rune length of both strings and
// M is the total length of the matching blocks found by taking the longest
// common substring and recursing on the pieces to its left and right. Two
// empty strings have ratio 1.
func Ratio(a, b string) float64 {
	return ratio(hebrew.Normalize(a), hebrew.Normalize(b))
}

// ratio computes the block-matching ratio of already normalized strings.
// Autojunk is disabled so long inputs are not silently pruned. difflib breaks
// ties between equally long blocks by position in its first argument, so the
// pair is put in lexical order first to keep the ratio symmetric.
func ratio(a, b string) float64 {
	if a > b {
		a, b = b, a
	}
	m := difflib.NewMatcherWithJunk(splitRunes(a), splitRunes(b), false, nil)
	return m.Ratio()
}

// Fuzzy reports whether Ratio(a, b) >= threshold.
// Returns an InvalidArgument error if threshold is outside [0,1].
func Fuzzy(a, b string, threshold float64) (bool, error) {
	if err := CheckThreshold(threshold); err != nil {
		return false, err
	}
	return Ratio(a, b) >= threshold, nil
}

// CheckThreshold returns an InvalidArgument error unless 0 <= threshold <= 1.
func CheckThreshold(threshold float64) error {
	// Written as a negated range so NaN is rejected too.
	if !(threshold >= 0 && threshold <= 1) {
		return errs.InvalidArgument("fuzzy threshold must be within [0,1]").
			WithDetail("threshold", strconv.FormatFloat(threshold, 'g', -1, 64))
	}
	return nil
}

// splitRunes splits s into one element per rune, the unit difflib compares.
func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
