package cycle

import (
	"fmt"

	"github.com/roach88/kitzur/internal/corpus"
	"github.com/roach88/kitzur/internal/errs"
)

// LegacyWidth is the fixed sections-per-chapter width older deep links
// assumed when turning a cycle position into a chapter/section pair.
const LegacyWidth = 10

// Address is a logical (chapter, section) reference that may not exist
// verbatim in the corpus.
type Address struct {
	Chapter int `json:"chapter"`
	Section int `json:"section"`
}

func (a Address) String() string {
	return fmt.Sprintf("%d:%d", a.Chapter, a.Section)
}

// LegacyAddress derives the fixed-width address for a position:
// chapter position/LegacyWidth+1, section position%LegacyWidth+1.
// It is an input to Resolve, not a second scheduling scheme.
// position must be non-negative.
func LegacyAddress(position int) Address {
	return Address{Chapter: position/LegacyWidth + 1, Section: position%LegacyWidth + 1}
}

// Chaptered is the chapter view of a corpus Resolve needs.
// *corpus.Index implements it.
type Chaptered interface {
	Chapters() []int
	Sections(chapter int) []corpus.Unit
}

// Resolve maps addr onto a unit that exists. An exact (chapter, section)
// match wins. Otherwise an absent chapter wraps over the ordered chapter
// list, and an absent section wraps over that chapter's actual sections:
// section s of a chapter holding n sections resolves to the ((s-1) mod n)th
// one. Resolve never reports a missing unit; it only fails for a corpus with
// no chapters at all.
func Resolve(ix Chaptered, addr Address) (corpus.Unit, error) {
	if ix == nil {
		return corpus.Unit{}, errs.InvalidArgument("nil corpus")
	}
	chapters := ix.Chapters()
	if len(chapters) == 0 {
		return corpus.Unit{}, errs.InvalidArgument("corpus has no chapters")
	}

	chapter := chapters[floorMod(addr.Chapter-1, len(chapters))]
	for _, c := range chapters {
		if c == addr.Chapter {
			chapter = c
			break
		}
	}

	sections := ix.Sections(chapter)
	if len(sections) == 0 {
		return corpus.Unit{}, errs.InvalidArgument("chapter %d has no sections", chapter)
	}
	for _, u := range sections {
		if u.SectionNumber == addr.Section {
			return u, nil
		}
	}
	return sections[floorMod(addr.Section-1, len(sections))], nil
}

// ResolveID parses a unit or chapter identifier and resolves it with the
// same fallback as Resolve. A chapter identifier resolves to its first
// section.
func ResolveID(ix Chaptered, id string) (corpus.Unit, error) {
	_, chapter, section, err := corpus.ParseID(id)
	if err != nil {
		return corpus.Unit{}, err
	}
	if section == 0 {
		section = 1
	}
	return Resolve(ix, Address{Chapter: chapter, Section: section})
}

func floorMod(a, n int) int {
	return ((a % n) + n) % n
}
