package cycle

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kitzur/internal/corpus"
	"github.com/roach88/kitzur/internal/errs"
)

// sampleIndex has chapters 1, 2, 3 and 5 with 3, 4, 2 and 2 sections.
func sampleIndex(t *testing.T) *corpus.Index {
	t.Helper()
	ix, err := corpus.Open(filepath.Join("..", "corpus", "testdata", "corpus.yaml"))
	require.NoError(t, err)
	return ix
}

// unevenIndex builds n units spread over chapters of varying length.
func unevenIndex(t *testing.T, n int) *corpus.Index {
	t.Helper()
	var records []corpus.Record
	chapter, section := 1, 1
	for i := 0; i < n; i++ {
		records = append(records, corpus.Record{
			ChapterNumber: chapter,
			SectionNumber: section,
			SectionText:   fmt.Sprintf("text %d", i),
		})
		section++
		if section > chapter%7+1 {
			chapter++
			section = 1
		}
	}
	ix, err := corpus.Load(records)
	require.NoError(t, err)
	return ix
}

func TestDailyPosition_Anchor(t *testing.T) {
	anchor := Date(1864, time.January, 1)

	pos, err := DailyPosition(anchor, anchor, 2210)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	pos, err = DailyPosition(anchor.AddDate(0, 0, 2210), anchor, 2210)
	require.NoError(t, err)
	assert.Equal(t, 0, pos, "periodic after totalUnits days")

	pos, err = DailyPosition(anchor.AddDate(0, 0, 1), anchor, 2210)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
}

func TestDailyPosition_KnownDates(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{Date(2026, time.October, 19), 2001},
		{Date(2026, time.February, 8), 1748},
		{Date(2000, time.January, 1), 1053},
		{Date(1863, time.December, 31), 2209},
	}
	for _, tt := range tests {
		pos, err := DailyPosition(tt.date, DefaultAnchor, 2210)
		require.NoError(t, err)
		assert.Equal(t, tt.want, pos, tt.date.Format(time.DateOnly))
	}
}

func TestDailyPosition_BeforeAnchorIsNonNegative(t *testing.T) {
	for days := 1; days <= 30; days++ {
		pos, err := DailyPosition(DefaultAnchor.AddDate(0, 0, -days), DefaultAnchor, 7)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, pos, 0)
		assert.Less(t, pos, 7)
		assert.Equal(t, ((-days%7)+7)%7, pos)
	}
}

func TestDailyPosition_IgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2026, time.October, 19, 0, 0, 1, 0, time.UTC)
	night := time.Date(2026, time.October, 19, 23, 59, 59, 0, time.UTC)

	a, err := DailyPosition(morning, DefaultAnchor, 2210)
	require.NoError(t, err)
	b, err := DailyPosition(night, DefaultAnchor, 2210)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDailyPosition_Invalid(t *testing.T) {
	_, err := DailyPosition(DefaultAnchor, DefaultAnchor, 0)
	assert.True(t, errs.IsInvalidDate(err))

	_, err = DailyPosition(DefaultAnchor, DefaultAnchor, -5)
	assert.True(t, errs.IsInvalidDate(err))

	_, err = DailyPosition(time.Time{}, DefaultAnchor, 10)
	assert.True(t, errs.IsInvalidDate(err))

	_, err = DailyPosition(Date(10000, time.January, 1), DefaultAnchor, 10)
	assert.True(t, errs.IsInvalidDate(err))

	_, err = DailyPosition(DefaultAnchor, Date(0, time.June, 1), 10)
	assert.True(t, errs.IsInvalidDate(err))
}

func TestDaysBetween(t *testing.T) {
	d, err := DaysBetween(Date(1864, time.January, 2), DefaultAnchor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d)

	d, err = DaysBetween(DefaultAnchor, Date(1864, time.January, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(-1), d)

	// Time of day is ignored; only calendar fields count.
	ny := time.FixedZone("EST", -5*3600)
	d, err = DaysBetween(time.Date(2026, time.March, 9, 1, 0, 0, 0, ny), time.Date(2026, time.March, 7, 23, 0, 0, 0, ny))
	require.NoError(t, err)
	assert.Equal(t, int64(2), d)
}

func TestDailyUnit_FullCoverage(t *testing.T) {
	for _, n := range []int{1, 11, 37, 221} {
		ix := unevenIndex(t, n)
		for _, start := range []time.Time{DefaultAnchor, Date(2026, time.October, 19), Date(1700, time.March, 3)} {
			seen := make(map[string]int)
			for i := 0; i < n; i++ {
				u, err := DailyUnit(start.AddDate(0, 0, i), ix, DefaultAnchor)
				require.NoError(t, err)
				seen[u.ID]++
			}
			require.Len(t, seen, n, "n=%d start=%s", n, start.Format(time.DateOnly))
			for id, count := range seen {
				assert.Equal(t, 1, count, "unit %s repeated", id)
			}
		}
	}
}

func TestDailyUnit_Periodic(t *testing.T) {
	ix := unevenIndex(t, 37)
	for i := 0; i < 50; i++ {
		day := Date(2026, time.January, 1).AddDate(0, 0, i)
		a, err := DailyUnit(day, ix, DefaultAnchor)
		require.NoError(t, err)
		b, err := DailyUnit(day.AddDate(0, 0, ix.TotalUnits()), ix, DefaultAnchor)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestDailyUnit_SparseCorpusAlwaysResolves(t *testing.T) {
	ix := sampleIndex(t)
	for i := 0; i < 3*ix.TotalUnits(); i++ {
		u, err := DailyUnit(Date(2026, time.October, 1).AddDate(0, 0, i), ix, DefaultAnchor)
		require.NoError(t, err)
		assert.False(t, errs.IsNotFound(err))
		assert.NotEmpty(t, u.SectionText)
	}
}

func TestDailyUnit_NilCorpus(t *testing.T) {
	_, err := DailyUnit(DefaultAnchor, nil, DefaultAnchor)
	assert.True(t, errs.IsInvalidArgument(err))
}

func TestScheduler_StableWithinLocalDay(t *testing.T) {
	ix := sampleIndex(t)
	zone := time.FixedZone("IST", 2*3600)
	s := NewScheduler(DefaultAnchor, zone)

	// 23:30 UTC on the 18th is already the 19th in the +02:00 zone.
	late := time.Date(2026, time.October, 18, 23, 30, 0, 0, time.UTC)
	startOfDay := time.Date(2026, time.October, 19, 0, 0, 0, 0, zone)
	endOfDay := time.Date(2026, time.October, 19, 23, 59, 59, 0, zone)

	want, err := DailyUnit(Date(2026, time.October, 19), ix, DefaultAnchor)
	require.NoError(t, err)

	for _, now := range []time.Time{late, startOfDay, endOfDay} {
		got, err := s.Unit(now, ix)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID, now.String())
	}

	next, err := s.Unit(endOfDay.Add(time.Second), ix)
	require.NoError(t, err)
	assert.NotEqual(t, want.ID, next.ID)
}

func TestScheduler_Defaults(t *testing.T) {
	s := NewScheduler(DefaultAnchor, nil)
	assert.Equal(t, time.UTC, s.Location())
	assert.Equal(t, DefaultAnchor, s.Anchor())

	pos, err := s.Position(Date(2026, time.October, 19), 2210)
	require.NoError(t, err)
	assert.Equal(t, 2001, pos)
}

func TestScheduler_Window(t *testing.T) {
	ix := sampleIndex(t)
	s := NewScheduler(DefaultAnchor, time.UTC)

	entries, err := s.Window(Date(2026, time.October, 19), 14, ix)
	require.NoError(t, err)
	require.Len(t, entries, 14)

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s\t%d\t%s", e.Day.Format(time.DateOnly), e.Position, e.Unit.ID)
	}

	g := goldie.New(t)
	g.Assert(t, "window", []byte(strings.Join(lines, "\n")+"\n"))
}

func TestScheduler_WindowInvalid(t *testing.T) {
	s := NewScheduler(DefaultAnchor, time.UTC)
	_, err := s.Window(DefaultAnchor, 0, sampleIndex(t))
	assert.True(t, errs.IsInvalidArgument(err))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("1864-01-01")
	require.NoError(t, err)
	assert.Equal(t, DefaultAnchor, d)

	_, err = ParseDate("01/01/1864")
	assert.True(t, errs.IsInvalidDate(err))
}

func TestCalendarDay(t *testing.T) {
	zone := time.FixedZone("W", -8*3600)
	got := CalendarDay(time.Date(2026, time.October, 19, 3, 0, 0, 0, time.UTC), zone)
	assert.Equal(t, Date(2026, time.October, 18), got)
	assert.Equal(t, Date(2026, time.October, 19), CalendarDay(time.Date(2026, time.October, 19, 3, 0, 0, 0, time.UTC), nil))
}
