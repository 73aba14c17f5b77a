package cycle

import (
	"time"

	"github.com/roach88/kitzur/internal/errs"
)

// Supported calendar range. Dates outside it are rejected with InvalidDate.
const (
	MinYear = 1
	MaxYear = 9999
)

const secondsPerDay = 24 * 60 * 60

// DefaultAnchor is day zero of the cycle: 1 January 1864.
var DefaultAnchor = Date(1864, time.January, 1)

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, errs.InvalidDate("cannot parse %q as YYYY-MM-DD", s)
	}
	return t, nil
}

// CalendarDay returns the calendar day t falls on in loc, as midnight UTC.
// A nil loc means UTC.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Date(y, m, d)
}

// dayNumber returns the day count of t's calendar date relative to the Unix
// epoch. Only the year/month/day fields in t's own location are used.
func dayNumber(t time.Time) (int64, error) {
	if t.IsZero() {
		return 0, errs.InvalidDate("date is unset")
	}
	y, m, d := t.Date()
	if y < MinYear || y > MaxYear {
		return 0, errs.InvalidDate("year %d outside [%d,%d]", y, MinYear, MaxYear)
	}
	// Midnight UTC is an exact multiple of a day, so the division is exact
	// on both sides of the epoch.
	return Date(y, m, d).Unix() / secondsPerDay, nil
}

// DaysBetween returns the number of calendar days from anchor to date;
// negative if date precedes anchor.
func DaysBetween(date, anchor time.Time) (int64, error) {
	dn, err := dayNumber(date)
	if err != nil {
		return 0, err
	}
	an, err := dayNumber(anchor)
	if err != nil {
		return 0, err
	}
	return dn - an, nil
}
