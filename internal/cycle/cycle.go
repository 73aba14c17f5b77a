package cycle

import (
	"strconv"
	"time"

	"github.com/roach88/kitzur/internal/corpus"
	"github.com/roach88/kitzur/internal/errs"
)

// Sequence is the read side of a corpus the scheduler walks.
// *corpus.Index implements it.
type Sequence interface {
	TotalUnits() int
	UnitAt(position int) (corpus.Unit, error)
}

// DailyPosition returns the corpus position for date:
// floorMod(DaysBetween(date, anchor), totalUnits), always in [0, totalUnits).
//
// Returns an InvalidDate error if totalUnits <= 0 or either date is outside
// the supported calendar range.
func DailyPosition(date, anchor time.Time, totalUnits int) (int, error) {
	if totalUnits <= 0 {
		return 0, errs.InvalidDate("cycle length must be positive").
			WithDetail("total_units", strconv.Itoa(totalUnits))
	}
	offset, err := DaysBetween(date, anchor)
	if err != nil {
		return 0, err
	}
	n := int64(totalUnits)
	return int(((offset % n) + n) % n), nil
}

// DailyUnit returns the unit scheduled for date in seq.
func DailyUnit(date time.Time, seq Sequence, anchor time.Time) (corpus.Unit, error) {
	if seq == nil {
		return corpus.Unit{}, errs.InvalidArgument("nil corpus")
	}
	pos, err := DailyPosition(date, anchor, seq.TotalUnits())
	if err != nil {
		return corpus.Unit{}, err
	}
	return seq.UnitAt(pos)
}

// Scheduler fixes the anchor and the time zone that decides which calendar
// day "now" belongs to. The zero value is not usable; use NewScheduler.
type Scheduler struct {
	anchor time.Time
	loc    *time.Location
}

// Entry is one day of a schedule window.
type Entry struct {
	Day      time.Time   `json:"day"`
	Position int         `json:"position"`
	Unit     corpus.Unit `json:"unit"`
}

// NewScheduler returns a Scheduler. A nil loc means UTC.
func NewScheduler(anchor time.Time, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{anchor: anchor, loc: loc}
}

// Anchor returns day zero of the cycle.
func (s *Scheduler) Anchor() time.Time { return s.anchor }

// Location returns the time zone used to derive calendar days.
func (s *Scheduler) Location() *time.Location { return s.loc }

// Day returns the calendar day now falls on in the scheduler's zone.
func (s *Scheduler) Day(now time.Time) time.Time {
	return CalendarDay(now, s.loc)
}

// Position returns the position for the calendar day containing now.
func (s *Scheduler) Position(now time.Time, totalUnits int) (int, error) {
	return DailyPosition(s.Day(now), s.anchor, totalUnits)
}

// Unit returns the unit for the calendar day containing now. Every instant
// of one local day yields the same unit.
func (s *Scheduler) Unit(now time.Time, seq Sequence) (corpus.Unit, error) {
	return DailyUnit(s.Day(now), seq, s.anchor)
}

// Window returns the units for days consecutive calendar days starting with
// the day containing from.
func (s *Scheduler) Window(from time.Time, days int, seq Sequence) ([]Entry, error) {
	if days <= 0 {
		return nil, errs.InvalidArgument("window must cover at least one day")
	}
	if seq == nil {
		return nil, errs.InvalidArgument("nil corpus")
	}
	start := s.Day(from)
	out := make([]Entry, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		pos, err := DailyPosition(day, s.anchor, seq.TotalUnits())
		if err != nil {
			return nil, err
		}
		u, err := seq.UnitAt(pos)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Day: day, Position: pos, Unit: u})
	}
	return out, nil
}
