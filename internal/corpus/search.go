package corpus

import (
	"sort"
	"strings"

	"github.com/roach88/kitzur/internal/hebrew"
)

// Search weights per field containing the query.
const (
	scoreText  = 10
	scoreTitle = 5
	scoreLabel = 3
)

// Hit is one search result.
type Hit struct {
	Unit     Unit `json:"unit"`
	Position int  `json:"position"`
	Score    int  `json:"score"`
}

// Search returns the units whose text, chapter title or chapter label
// contains the normalized query, best score first and canonical order among
// equal scores. A blank query returns nil. limit <= 0 means no limit.
func (ix *Index) Search(query string, limit int) []Hit {
	q := hebrew.Normalize(query)
	if q == "" {
		return nil
	}

	var hits []Hit
	for pos, u := range ix.units {
		score := 0
		if strings.Contains(hebrew.Normalize(u.SectionText), q) {
			score += scoreText
		}
		if u.ChapterTitle != "" && strings.Contains(hebrew.Normalize(u.ChapterTitle), q) {
			score += scoreTitle
		}
		if strings.Contains(hebrew.Normalize(u.ChapterLabel), q) {
			score += scoreLabel
		}
		if score > 0 {
			hits = append(hits, Hit{Unit: u, Position: pos, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
