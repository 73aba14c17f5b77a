package match

import (
	"strings"

	"github.com/roach88/kitzur/internal/hebrew"
)

// Matcher holds one side of repeated comparisons in normalized form, so a
// search loop normalizes its subject once instead of once per candidate.
type Matcher struct {
	original   string
	normalized string
}

// NewMatcher normalizes text once.
func NewMatcher(text string) *Matcher {
	return &Matcher{original: text, normalized: hebrew.Normalize(text)}
}

// Original returns the text the Matcher was built from.
func (m *Matcher) Original() string { return m.original }

// Normalized returns the normalized form.
func (m *Matcher) Normalized() string { return m.normalized }

// Matches reports whether other normalizes to the same string.
func (m *Matcher) Matches(other string) bool {
	return m.normalized == hebrew.Normalize(other)
}

// Contains reports whether the normalized other occurs inside this text.
func (m *Matcher) Contains(other string) bool {
	return strings.Contains(m.normalized, hebrew.Normalize(other))
}

// Fuzzy reports whether the similarity ratio with other reaches threshold.
func (m *Matcher) Fuzzy(other string, threshold float64) (bool, error) {
	if err := CheckThreshold(threshold); err != nil {
		return false, err
	}
	return ratio(m.normalized, hebrew.Normalize(other)) >= threshold, nil
}
