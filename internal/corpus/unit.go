package corpus

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/roach88/kitzur/internal/errs"
)

// DefaultPrefix identifies the Kitzur Shulchan Aruch corpus.
const DefaultPrefix = "kitzur_orach_chaim"

// Record is one raw corpus entry as supplied by a corpus source.
type Record struct {
	ChapterNumber int    `json:"chapter" yaml:"chapter"`
	ChapterLabel  string `json:"chapter_label,omitempty" yaml:"chapter_label,omitempty"`
	ChapterTitle  string `json:"chapter_title,omitempty" yaml:"chapter_title,omitempty"`
	SectionNumber int    `json:"section" yaml:"section"`
	SectionText   string `json:"text" yaml:"text"`
}

// Unit is one addressable section of the corpus.
// Identity is (ChapterNumber, SectionNumber); ID is derived from it.
type Unit struct {
	ID            string `json:"id"`
	ChapterNumber int    `json:"chapter"`
	ChapterLabel  string `json:"chapter_label"`
	ChapterTitle  string `json:"chapter_title,omitempty"`
	SectionNumber int    `json:"section"`
	SectionText   string `json:"text"`
}

// FormatID returns the unit identifier "{prefix}-{chapter:03d}-s{section}".
func FormatID(prefix string, chapter, section int) string {
	return fmt.Sprintf("%s-%03d-s%d", prefix, chapter, section)
}

// FormatChapterID returns the chapter identifier "{prefix}-{chapter:03d}".
func FormatChapterID(prefix string, chapter int) string {
	return fmt.Sprintf("%s-%03d", prefix, chapter)
}

var idPattern = regexp.MustCompile(`^(.+)-(\d{3,})(?:-s(\d+))?$`)

// ParseID splits a unit or chapter identifier into its parts.
// Chapter identifiers yield section 0.
func ParseID(id string) (prefix string, chapter, section int, err error) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return "", 0, 0, errs.InvalidArgument("malformed identifier %q", id)
	}
	chapter, err = strconv.Atoi(m[2])
	if err != nil {
		return "", 0, 0, errs.InvalidArgument("malformed chapter in identifier %q", id)
	}
	if m[3] != "" {
		section, err = strconv.Atoi(m[3])
		if err != nil {
			return "", 0, 0, errs.InvalidArgument("malformed section in identifier %q", id)
		}
	}
	return m[1], chapter, section, nil
}
