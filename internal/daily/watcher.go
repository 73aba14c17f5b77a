package daily

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/roach88/kitzur/internal/cycle"
	"github.com/roach88/kitzur/internal/errs"
)

// Watcher re-checks the daily unit on a cron schedule and calls OnChange
// whenever it differs from the last one seen.
type Watcher struct {
	svc      *Service
	cron     *cron.Cron
	logger   *slog.Logger
	onChange func(cycle.Entry)

	mu   sync.Mutex
	last string
}

// NewWatcher schedules svc on spec, a standard five-field cron expression
// evaluated in the scheduler's location.
func NewWatcher(svc *Service, spec string, onChange func(cycle.Entry)) (*Watcher, error) {
	if svc == nil {
		return nil, errs.InvalidArgument("watcher needs a daily service")
	}
	w := &Watcher{
		svc:      svc,
		logger:   svc.logger.With("component", "watcher", "spec", spec),
		onChange: onChange,
	}
	w.cron = cron.New(
		cron.WithLocation(svc.sched.Location()),
		cron.WithLogger(cronLogger{w.logger}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{w.logger})),
	)
	if _, err := w.cron.AddFunc(spec, w.tick); err != nil {
		return nil, errs.InvalidArgument("watch spec %q: %v", spec, err)
	}
	return w, nil
}

// Start reports the current unit, then runs the schedule in the background.
func (w *Watcher) Start() {
	w.tick()
	w.cron.Start()
	w.logger.Info("watcher started")
}

// Stop halts the schedule and waits for a running check to finish.
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
	w.logger.Info("watcher stopped")
}

// Run starts the watcher and blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.Start()
	<-ctx.Done()
	w.Stop()
	return ctx.Err()
}

func (w *Watcher) tick() {
	e, err := w.svc.Today()
	if err != nil {
		w.logger.Error("daily unit check failed", "error", err)
		return
	}

	w.mu.Lock()
	changed := e.Unit.ID != w.last
	w.last = e.Unit.ID
	w.mu.Unlock()

	if !changed {
		return
	}
	w.logger.Info("daily unit changed", "day", e.Day.Format("2006-01-02"), "id", e.Unit.ID)
	if w.onChange != nil {
		w.onChange(e)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
