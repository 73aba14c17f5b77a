package daily

import (
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/roach88/kitzur/internal/cycle"
	"github.com/roach88/kitzur/internal/errs"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Service resolves the daily unit for the clock's current day.
// Safe for concurrent use.
type Service struct {
	seq    cycle.Sequence
	sched  *cycle.Scheduler
	clock  Clock
	cache  *lru.Cache[string, cycle.Entry]
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service caching up to cacheSize days.
func NewService(seq cycle.Sequence, sched *cycle.Scheduler, cacheSize int, opts ...Option) (*Service, error) {
	if seq == nil || sched == nil {
		return nil, errs.InvalidArgument("daily service needs a corpus and a scheduler")
	}
	cache, err := lru.New[string, cycle.Entry](cacheSize)
	if err != nil {
		return nil, errs.InvalidArgument("cache size: %v", err)
	}
	s := &Service{
		seq:    seq,
		sched:  sched,
		clock:  SystemClock{},
		cache:  cache,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Today returns the entry for the clock's current local day.
func (s *Service) Today() (cycle.Entry, error) {
	return s.On(s.clock.Now())
}

// On returns the entry for the local day containing t.
func (s *Service) On(t time.Time) (cycle.Entry, error) {
	day := s.sched.Day(t)
	key := day.Format(time.DateOnly)
	if e, ok := s.cache.Get(key); ok {
		return e, nil
	}

	pos, err := s.sched.Position(t, s.seq.TotalUnits())
	if err != nil {
		return cycle.Entry{}, err
	}
	u, err := s.seq.UnitAt(pos)
	if err != nil {
		return cycle.Entry{}, fmt.Errorf("daily unit for %s: %w", key, err)
	}

	e := cycle.Entry{Day: day, Position: pos, Unit: u}
	s.cache.Add(key, e)
	s.logger.Debug("daily unit resolved", "day", key, "position", pos, "id", u.ID)
	return e, nil
}

// Cached reports how many days are currently cached.
func (s *Service) Cached() int {
	return s.cache.Len()
}
