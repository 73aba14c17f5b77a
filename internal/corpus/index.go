package corpus

import (
	"sort"
	"strconv"

	"github.com/roach88/kitzur/internal/errs"
	"github.com/roach88/kitzur/internal/hebrew"
)

// Index is the ordered, read-only registry of content units.
type Index struct {
	prefix    string
	units     []Unit
	byID      map[string]int
	chapters  []span
	byChapter map[int]int
}

// span is a chapter's contiguous run of positions, [start, end).
type span struct {
	number     int
	start, end int
}

type key struct{ chapter, section int }

// Load builds an Index under DefaultPrefix. See LoadWithPrefix.
func Load(records []Record) (*Index, error) {
	return LoadWithPrefix(DefaultPrefix, records)
}

// LoadWithPrefix validates records, sorts them by (chapter, section) and
// returns the immutable Index.
//
// Returns a Validation error if records is empty, a chapter or section number
// is not positive, or two records share a (chapter, section) pair. A missing
// chapter label is filled in with the Hebrew numeral form.
func LoadWithPrefix(prefix string, records []Record) (*Index, error) {
	if prefix == "" {
		return nil, errs.Validation("corpus prefix is empty")
	}
	if len(records) == 0 {
		return nil, errs.Validation("corpus has no records")
	}

	seen := make(map[key]int, len(records))
	units := make([]Unit, 0, len(records))
	for i, r := range records {
		if r.ChapterNumber < 1 || r.SectionNumber < 1 {
			return nil, errs.Validation("record %d: chapter and section must be positive", i).
				WithDetail("chapter", strconv.Itoa(r.ChapterNumber)).
				WithDetail("section", strconv.Itoa(r.SectionNumber))
		}
		k := key{r.ChapterNumber, r.SectionNumber}
		if prev, dup := seen[k]; dup {
			return nil, errs.Validation("records %d and %d share chapter %d section %d",
				prev, i, r.ChapterNumber, r.SectionNumber).
				WithDetail("id", FormatID(prefix, r.ChapterNumber, r.SectionNumber))
		}
		seen[k] = i

		label := r.ChapterLabel
		if label == "" {
			label = hebrew.ChapterLabel(r.ChapterNumber)
		}
		units = append(units, Unit{
			ID:            FormatID(prefix, r.ChapterNumber, r.SectionNumber),
			ChapterNumber: r.ChapterNumber,
			ChapterLabel:  label,
			ChapterTitle:  r.ChapterTitle,
			SectionNumber: r.SectionNumber,
			SectionText:   r.SectionText,
		})
	}

	sort.Slice(units, func(i, j int) bool {
		if units[i].ChapterNumber != units[j].ChapterNumber {
			return units[i].ChapterNumber < units[j].ChapterNumber
		}
		return units[i].SectionNumber < units[j].SectionNumber
	})

	ix := &Index{
		prefix:    prefix,
		units:     units,
		byID:      make(map[string]int, len(units)),
		byChapter: make(map[int]int),
	}
	for pos, u := range units {
		ix.byID[u.ID] = pos
		n := len(ix.chapters)
		if n == 0 || ix.chapters[n-1].number != u.ChapterNumber {
			ix.byChapter[u.ChapterNumber] = n
			ix.chapters = append(ix.chapters, span{number: u.ChapterNumber, start: pos, end: pos + 1})
			continue
		}
		ix.chapters[n-1].end = pos + 1
	}
	return ix, nil
}

// Prefix returns the corpus prefix used in unit identifiers.
func (ix *Index) Prefix() string { return ix.prefix }

// TotalUnits returns the number of units. Always > 0.
func (ix *Index) TotalUnits() int { return len(ix.units) }

// UnitAt returns the unit at position in canonical order.
// Returns an OutOfRange error unless 0 <= position < TotalUnits().
func (ix *Index) UnitAt(position int) (Unit, error) {
	if position < 0 || position >= len(ix.units) {
		return Unit{}, errs.OutOfRange("position %d outside [0,%d)", position, len(ix.units))
	}
	return ix.units[position], nil
}

// FindByID returns the unit with the given identifier.
// Returns a NotFound error if no unit has that id.
func (ix *Index) FindByID(id string) (Unit, error) {
	pos, err := ix.Position(id)
	if err != nil {
		return Unit{}, err
	}
	return ix.units[pos], nil
}

// Position returns the canonical position of the unit with the given id.
func (ix *Index) Position(id string) (int, error) {
	pos, ok := ix.byID[id]
	if !ok {
		return 0, errs.NotFound("no unit with id %q", id)
	}
	return pos, nil
}

// Find returns the unit at (chapter, section).
func (ix *Index) Find(chapter, section int) (Unit, error) {
	return ix.FindByID(FormatID(ix.prefix, chapter, section))
}

// Chapters returns the chapter numbers present, ascending.
func (ix *Index) Chapters() []int {
	out := make([]int, len(ix.chapters))
	for i, c := range ix.chapters {
		out[i] = c.number
	}
	return out
}

// HasChapter reports whether any unit belongs to chapter.
func (ix *Index) HasChapter(chapter int) bool {
	_, ok := ix.byChapter[chapter]
	return ok
}

// Sections returns the units of one chapter in section order, or nil if the
// chapter is absent. The slice is a copy.
func (ix *Index) Sections(chapter int) []Unit {
	i, ok := ix.byChapter[chapter]
	if !ok {
		return nil
	}
	c := ix.chapters[i]
	return append([]Unit(nil), ix.units[c.start:c.end]...)
}

// Units returns a copy of every unit in canonical order.
func (ix *Index) Units() []Unit {
	return append([]Unit(nil), ix.units...)
}
