package corpus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kitzur/internal/errs"
)

func sampleRecords() []Record {
	return []Record{
		{ChapterNumber: 2, ChapterLabel: "סימן ב׳", SectionNumber: 1, SectionText: "ב-א"},
		{ChapterNumber: 1, ChapterLabel: "סימן א׳", SectionNumber: 3, SectionText: "א-ג"},
		{ChapterNumber: 1, ChapterLabel: "סימן א׳", SectionNumber: 1, SectionText: "א-א"},
		{ChapterNumber: 10, SectionNumber: 1, SectionText: "י-א"},
		{ChapterNumber: 1, ChapterLabel: "סימן א׳", SectionNumber: 2, SectionText: "א-ב"},
	}
}

func TestLoad_SortsByChapterThenSection(t *testing.T) {
	ix, err := Load(sampleRecords())
	require.NoError(t, err)

	require.Equal(t, 5, ix.TotalUnits())
	want := []string{
		"kitzur_orach_chaim-001-s1",
		"kitzur_orach_chaim-001-s2",
		"kitzur_orach_chaim-001-s3",
		"kitzur_orach_chaim-002-s1",
		"kitzur_orach_chaim-010-s1",
	}
	for pos, id := range want {
		u, err := ix.UnitAt(pos)
		require.NoError(t, err)
		assert.Equal(t, id, u.ID, "position %d", pos)
	}
}

func TestLoad_Empty(t *testing.T) {
	_, err := Load(nil)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	_, err = Load([]Record{})
	assert.True(t, errs.IsValidation(err))
}

func TestLoad_Duplicate(t *testing.T) {
	records := []Record{
		{ChapterNumber: 1, SectionNumber: 1, SectionText: "first"},
		{ChapterNumber: 1, SectionNumber: 1, SectionText: "second"},
	}
	_, err := Load(records)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "kitzur_orach_chaim-001-s1", e.Details["id"])
}

func TestLoad_NonPositiveNumbers(t *testing.T) {
	for _, r := range []Record{
		{ChapterNumber: 0, SectionNumber: 1, SectionText: "x"},
		{ChapterNumber: 1, SectionNumber: 0, SectionText: "x"},
		{ChapterNumber: -4, SectionNumber: 2, SectionText: "x"},
	} {
		_, err := Load([]Record{r})
		assert.True(t, errs.IsValidation(err), "record %+v", r)
	}
}

func TestLoad_EmptyPrefix(t *testing.T) {
	_, err := LoadWithPrefix("", sampleRecords())
	assert.True(t, errs.IsValidation(err))
}

func TestLoad_FillsMissingLabel(t *testing.T) {
	ix, err := Load(sampleRecords())
	require.NoError(t, err)

	u, err := ix.Find(10, 1)
	require.NoError(t, err)
	assert.Equal(t, "סימן י׳", u.ChapterLabel)
}

func TestLoad_DoesNotAliasInput(t *testing.T) {
	records := sampleRecords()
	ix, err := Load(records)
	require.NoError(t, err)

	records[0].SectionText = "changed"
	u, err := ix.Find(2, 1)
	require.NoError(t, err)
	assert.Equal(t, "ב-א", u.SectionText)
}

func TestUnitAt_OutOfRange(t *testing.T) {
	ix, err := Load(sampleRecords())
	require.NoError(t, err)

	for _, pos := range []int{-1, 5, 100} {
		_, err := ix.UnitAt(pos)
		require.Error(t, err)
		assert.True(t, errs.IsOutOfRange(err), "position %d", pos)
	}
}

func TestFindByID(t *testing.T) {
	ix, err := Load(sampleRecords())
	require.NoError(t, err)

	u, err := ix.FindByID("kitzur_orach_chaim-001-s2")
	require.NoError(t, err)
	assert.Equal(t, 1, u.ChapterNumber)
	assert.Equal(t, 2, u.SectionNumber)
	assert.Equal(t, "א-ב", u.SectionText)

	pos, err := ix.Position("kitzur_orach_chaim-002-s1")
	require.NoError(t, err)
	assert.Equal(t, 3, pos)

	_, err = ix.FindByID("kitzur_orach_chaim-001-s9")
	assert.True(t, errs.IsNotFound(err))

	_, err = ix.Find(3, 1)
	assert.True(t, errs.IsNotFound(err))
}

func TestChaptersAndSections(t *testing.T) {
	ix, err := Load(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 10}, ix.Chapters())
	assert.True(t, ix.HasChapter(10))
	assert.False(t, ix.HasChapter(3))

	sections := ix.Sections(1)
	require.Len(t, sections, 3)
	assert.Equal(t, 1, sections[0].SectionNumber)
	assert.Equal(t, 3, sections[2].SectionNumber)
	assert.Nil(t, ix.Sections(4))

	sections[0].SectionText = "mutated"
	again := ix.Sections(1)
	assert.Equal(t, "א-א", again[0].SectionText, "Sections returns a copy")

	units := ix.Units()
	units[0].ID = "mutated"
	first, _ := ix.UnitAt(0)
	assert.Equal(t, "kitzur_orach_chaim-001-s1", first.ID, "Units returns a copy")
}

func TestIndex_ConcurrentReads(t *testing.T) {
	ix, err := Load(sampleRecords())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := ix.UnitAt(i % ix.TotalUnits())
			assert.NoError(t, err)
			got, err := ix.FindByID(u.ID)
			assert.NoError(t, err)
			assert.Equal(t, u, got)
		}(i)
	}
	wg.Wait()
}

func TestFormatID(t *testing.T) {
	assert.Equal(t, "kitzur_orach_chaim-001-s3", FormatID("kitzur_orach_chaim", 1, 3))
	assert.Equal(t, "kitzur_orach_chaim-042-s12", FormatID("kitzur_orach_chaim", 42, 12))
	assert.Equal(t, "kitzur_orach_chaim-221-s1", FormatID("kitzur_orach_chaim", 221, 1))
	assert.Equal(t, "x-1000-s1", FormatID("x", 1000, 1))
	assert.Equal(t, "kitzur_orach_chaim-042", FormatChapterID("kitzur_orach_chaim", 42))
}

func TestParseID(t *testing.T) {
	tests := []struct {
		id      string
		prefix  string
		chapter int
		section int
	}{
		{"kitzur_orach_chaim-001-s3", "kitzur_orach_chaim", 1, 3},
		{"kitzur_orach_chaim-042", "kitzur_orach_chaim", 42, 0},
		{"some-work-221-s10", "some-work", 221, 10},
	}
	for _, tt := range tests {
		prefix, chapter, section, err := ParseID(tt.id)
		require.NoError(t, err, tt.id)
		assert.Equal(t, tt.prefix, prefix)
		assert.Equal(t, tt.chapter, chapter)
		assert.Equal(t, tt.section, section)
	}

	for _, bad := range []string{"", "kitzur", "kitzur-1-s3", "-001-s1", "kitzur-001-s"} {
		_, _, _, err := ParseID(bad)
		assert.True(t, errs.IsInvalidArgument(err), "id %q", bad)
	}
}

func TestParseID_RoundTrip(t *testing.T) {
	for _, c := range [][2]int{{1, 1}, {7, 12}, {221, 9}} {
		prefix, ch, sec, err := ParseID(FormatID(DefaultPrefix, c[0], c[1]))
		require.NoError(t, err)
		assert.Equal(t, DefaultPrefix, prefix)
		assert.Equal(t, c[0], ch)
		assert.Equal(t, c[1], sec)
	}
}
