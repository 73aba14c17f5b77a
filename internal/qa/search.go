package qa

import (
	"math"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/roach88/kitzur/internal/hebrew"
	"github.com/roach88/kitzur/internal/match"
)

// Relevance weights. A query word earns points per field it hits.
const (
	weightQuestionWord   = 30
	weightQuestionSubstr = 18
	weightTagExact       = 25
	weightTagPartial     = 12
	weightAnswerWord     = 15
	weightAnswerSubstr   = 8
	weightCoherence      = 20 // word in both question and answer
	weightPrefix         = 5
	weightInfix          = 2

	minScorePerWord   = 6
	exactMatchBoost   = 0.8
	answeredBoost     = 1.3
	minQueryWordRunes = 2
	minFuzzyWordRunes = 3
)

// Hit is a scored question.
type Hit struct {
	Question Question `json:"question"`
	Score    int      `json:"score"`
}

// Search ranks questions against query on normalized text.
//
// Query words shorter than two letters are ignored. A question is kept when
// its score reaches six points per query word; results are ordered by score,
// ties keeping input order. A blank query returns every question with score 0.
func Search(questions []Question, query string) []Hit {
	q := hebrew.Normalize(query)
	if q == "" {
		out := make([]Hit, len(questions))
		for i, question := range questions {
			out[i] = Hit{Question: question}
		}
		return out
	}

	var words []string
	for _, w := range strings.Fields(q) {
		if utf8.RuneCountInString(w) >= minQueryWordRunes {
			words = append(words, w)
		}
	}
	threshold := len(words) * minScorePerWord

	var hits []Hit
	for _, question := range questions {
		score := relevance(question, words)
		if score >= threshold {
			hits = append(hits, Hit{Question: question, Score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits
}

func relevance(question Question, words []string) int {
	text := hebrew.Normalize(question.Text)
	textWords := strings.Fields(text)

	var answer string
	if question.Answer != nil {
		answer = hebrew.Normalize(question.Answer.Text)
	}
	answerWords := strings.Fields(answer)

	tags := make([]string, len(question.Tags))
	for i, t := range question.Tags {
		tags[i] = hebrew.Normalize(t)
	}

	score := 0.0
	exact := 0
	for _, word := range words {
		inText := slices.Contains(textWords, word)
		inAnswer := slices.Contains(answerWords, word)

		switch {
		case inText:
			score += weightQuestionWord
			exact++
		case strings.Contains(text, word):
			score += weightQuestionSubstr
		}

		switch {
		case tagExact(tags, word):
			score += weightTagExact
			exact++
		case tagPartial(tags, word):
			score += weightTagPartial
		}

		switch {
		case inAnswer:
			score += weightAnswerWord
		case strings.Contains(answer, word):
			score += weightAnswerSubstr
		}

		if inText && inAnswer {
			score += weightCoherence
		}

		if utf8.RuneCountInString(word) >= minFuzzyWordRunes {
			for _, tw := range textWords {
				if utf8.RuneCountInString(tw) < minFuzzyWordRunes {
					continue
				}
				switch {
				case strings.HasPrefix(tw, word) || strings.HasPrefix(word, tw):
					score += weightPrefix
				case strings.Contains(tw, word) || strings.Contains(word, tw):
					score += weightInfix
				}
			}
		}
	}

	if len(words) > 1 {
		score *= 1 + float64(exact)/float64(len(words))*exactMatchBoost
	}
	if question.Answered() {
		score *= answeredBoost
	}
	return int(math.Round(score))
}

func tagExact(tags []string, word string) bool {
	for _, t := range tags {
		if t == word || slices.Contains(strings.Fields(t), word) {
			return true
		}
	}
	return false
}

func tagPartial(tags []string, word string) bool {
	for _, t := range tags {
		if strings.Contains(t, word) {
			return true
		}
	}
	return false
}

// FilterCategory returns the questions in category. An empty category
// returns all of them.
func FilterCategory(questions []Question, category Category) []Question {
	if category == "" {
		return questions
	}
	var out []Question
	for _, q := range questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

// Similar returns the questions whose text fuzzy-matches text at threshold,
// for spotting a question that has already been asked.
func Similar(questions []Question, text string, threshold float64) ([]Question, error) {
	if err := match.CheckThreshold(threshold); err != nil {
		return nil, err
	}
	m := match.NewMatcher(text)
	var out []Question
	for _, q := range questions {
		ok, err := m.Fuzzy(q.Text, threshold)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, q)
		}
	}
	return out, nil
}
