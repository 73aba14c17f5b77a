package corpus

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kitzur/internal/errs"
)

func openSample(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join("testdata", "corpus.yaml"))
	require.NoError(t, err)
	return ix
}

func TestReadFile_YAML(t *testing.T) {
	src, err := ReadFile(filepath.Join("testdata", "corpus.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "kitzur_orach_chaim", src.Prefix)
	assert.Len(t, src.Records, 11)
	assert.Equal(t, "דיני השכמת הבוקר", src.Records[0].ChapterTitle)
}

func TestOpen_YAML(t *testing.T) {
	ix := openSample(t)

	assert.Equal(t, 11, ix.TotalUnits())
	assert.Equal(t, []int{1, 2, 3, 5}, ix.Chapters())

	// Chapter 3 is listed out of order in the file.
	u, err := ix.UnitAt(7)
	require.NoError(t, err)
	assert.Equal(t, "kitzur_orach_chaim-003-s1", u.ID)
}

func TestReadFile_JSONDirectory(t *testing.T) {
	src, err := ReadFile(filepath.Join("testdata", "chapters"))
	require.NoError(t, err)
	assert.Equal(t, "kitzur_orach_chaim", src.Prefix)
	require.Len(t, src.Records, 3)

	ix, err := src.Index()
	require.NoError(t, err)

	u, err := ix.FindByID("kitzur_orach_chaim-002-s1")
	require.NoError(t, err)
	assert.Equal(t, "דיני נטילת ידים שחרית", u.ChapterTitle)
	assert.Equal(t, "סימן ב׳", u.ChapterLabel)
}

func TestReadFile_PrefixMismatch(t *testing.T) {
	_, err := ReadFile(filepath.Join("testdata", "mixed"))
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join("testdata", "nope.yaml"))
	assert.Error(t, err)
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	_, err := readOne(filepath.Join("testdata", "corpus.txt"))
	assert.Error(t, err)
}

func TestOpen_InvalidRejectedBySchema(t *testing.T) {
	_, err := Open(filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.NotEmpty(t, e.Details)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]Record{{ChapterNumber: 1, SectionNumber: 1, SectionText: "x"}}))

	tests := []struct {
		name    string
		records []Record
	}{
		{"nil", nil},
		{"empty", []Record{}},
		{"zero section", []Record{{ChapterNumber: 1, SectionNumber: 0, SectionText: "x"}}},
		{"negative chapter", []Record{{ChapterNumber: -1, SectionNumber: 1, SectionText: "x"}}},
		{"empty text", []Record{{ChapterNumber: 1, SectionNumber: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.records)
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))
		})
	}
}

func TestSearch(t *testing.T) {
	ix := openSample(t)

	hits := ix.Search("שַׁבָּת", 0)
	require.Len(t, hits, 3)
	assert.Equal(t, "kitzur_orach_chaim-005-s1", hits[0].Unit.ID)
	assert.Equal(t, 15, hits[0].Score)
	assert.Equal(t, "kitzur_orach_chaim-005-s2", hits[1].Unit.ID)
	assert.Equal(t, 15, hits[1].Score)
	assert.Equal(t, "kitzur_orach_chaim-003-s2", hits[2].Unit.ID)
	assert.Equal(t, 10, hits[2].Score)
	assert.Equal(t, 8, hits[2].Position)
}

func TestSearch_LabelAndLimit(t *testing.T) {
	ix := openSample(t)

	hits := ix.Search("סימן ה׳", 0)
	require.Len(t, hits, 2)
	assert.Equal(t, 3, hits[0].Score)

	limited := ix.Search("שבת", 1)
	require.Len(t, limited, 1)
	assert.Equal(t, "kitzur_orach_chaim-005-s1", limited[0].Unit.ID)
}

func TestSearch_BlankQuery(t *testing.T) {
	ix := openSample(t)
	assert.Nil(t, ix.Search("", 0))
	assert.Nil(t, ix.Search("   ", 0))
	assert.Nil(t, ix.Search("ְ", 0), "nikud-only query normalizes to blank")
}

func TestSearch_NoMatch(t *testing.T) {
	ix := openSample(t)
	assert.Empty(t, ix.Search("פסח", 0))
}
