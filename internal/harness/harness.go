package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"reflect"
	"time"
	_ "time/tzdata"

	"github.com/roach88/kitzur/internal/corpus"
	"github.com/roach88/kitzur/internal/cycle"
	"github.com/roach88/kitzur/internal/errs"
	"github.com/roach88/kitzur/internal/hebrew"
	"github.com/roach88/kitzur/internal/match"
)

// Harness executes scenario steps against one corpus and scheduler.
type Harness struct {
	index  *corpus.Index
	sched  *cycle.Scheduler
	seq    int64
	logger *slog.Logger
}

type operation struct {
	needsCorpus bool
	run         func(h *Harness, args map[string]any) (any, error)
}

var operations = map[string]operation{
	"normalize": {run: (*Harness).opNormalize},
	"exact":     {run: (*Harness).opExact},
	"contains":  {run: (*Harness).opContains},
	"ratio":     {run: (*Harness).opRatio},
	"fuzzy":     {run: (*Harness).opFuzzy},
	"numeral":   {run: (*Harness).opNumeral},
	"legacy":    {run: (*Harness).opLegacy},
	"daily":     {needsCorpus: true, run: (*Harness).opDaily},
	"window":    {needsCorpus: true, run: (*Harness).opWindow},
	"unit":      {needsCorpus: true, run: (*Harness).opUnit},
	"resolve":   {needsCorpus: true, run: (*Harness).opResolve},
	"search":    {needsCorpus: true, run: (*Harness).opSearch},
}

// Run executes a scenario and returns the result.
//
// A returned error means the scenario could not be set up (corpus, anchor or
// timezone); step failures are reported in Result.Errors instead.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with step-level debug logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	h, err := newHarness(scenario, logger)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		h.execute(i, step, result)
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func newHarness(scenario *Scenario, logger *slog.Logger) (*Harness, error) {
	h := &Harness{logger: logger.With("scenario", scenario.Name)}

	if scenario.Corpus != "" {
		ix, err := corpus.Open(scenario.Corpus)
		if err != nil {
			return nil, fmt.Errorf("failed to load corpus: %w", err)
		}
		h.index = ix
	}

	anchor := cycle.DefaultAnchor
	if scenario.Anchor != "" {
		a, err := cycle.ParseDate(scenario.Anchor)
		if err != nil {
			return nil, fmt.Errorf("anchor: %w", err)
		}
		anchor = a
	}

	loc := time.UTC
	if scenario.Timezone != "" {
		l, err := time.LoadLocation(scenario.Timezone)
		if err != nil {
			return nil, fmt.Errorf("timezone: %w", err)
		}
		loc = l
	}
	h.sched = cycle.NewScheduler(anchor, loc)
	return h, nil
}

// execute runs one step, traces it and checks its expectation.
func (h *Harness) execute(index int, step FlowStep, result *Result) {
	h.seq++
	ev := TraceEvent{Seq: h.seq, Op: step.Op, Args: step.Args}

	op, ok := operations[step.Op]
	var (
		out any
		err error
	)
	switch {
	case !ok:
		err = errs.InvalidArgument("unknown op %q", step.Op)
	case op.needsCorpus && h.index == nil:
		err = errs.InvalidArgument("op %q needs a corpus", step.Op)
	default:
		out, err = op.run(h, step.Args)
	}

	if err != nil {
		ev.Error = errorCode(err)
		h.logger.Debug("step failed", "seq", ev.Seq, "op", step.Op, "error", err)
	} else {
		ev.Result = out
		h.logger.Debug("step executed", "seq", ev.Seq, "op", step.Op)
	}
	result.AddTrace(ev)

	if step.Expect == nil {
		return
	}
	label := fmt.Sprintf("flow[%d] %s", index, step.Op)
	switch {
	case step.Expect.Error != "":
		if ev.Error != step.Expect.Error {
			result.AddError(fmt.Sprintf("%s: expected error %s, got %s", label, step.Expect.Error, describe(ev)))
		}
	case err != nil:
		result.AddError(fmt.Sprintf("%s: unexpected error %s: %v", label, ev.Error, err))
	case step.Expect.Result != nil:
		if !subsetMatch(canonical(step.Expect.Result), canonical(out)) {
			result.AddError(fmt.Sprintf("%s: expected %v, got %v", label, step.Expect.Result, out))
		}
	}
}

func errorCode(err error) string {
	if code := errs.CodeOf(err); code != "" {
		return string(code)
	}
	return "INTERNAL"
}

func describe(ev TraceEvent) string {
	if ev.Error != "" {
		return ev.Error
	}
	return fmt.Sprintf("result %v", ev.Result)
}

// canonical round-trips v through JSON so YAML-decoded expectations and Go
// results compare on equal footing.
func canonical(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// subsetMatch reports whether actual contains expected. Objects match when
// every expected key matches; arrays match element-wise.
func subsetMatch(expected, actual any) bool {
	switch e := expected.(type) {
	case map[string]any:
		a, ok := actual.(map[string]any)
		if !ok {
			return false
		}
		for k, v := range e {
			if !subsetMatch(v, a[k]) {
				return false
			}
		}
		return true
	case []any:
		a, ok := actual.([]any)
		if !ok || len(a) != len(e) {
			return false
		}
		for i := range e {
			if !subsetMatch(e[i], a[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(expected, actual)
	}
}

// dayResult is the traced form of a scheduled day.
type dayResult struct {
	Day      string `json:"day"`
	Position int    `json:"position"`
	ID       string `json:"id"`
}

func newDayResult(e cycle.Entry) dayResult {
	return dayResult{Day: e.Day.Format(time.DateOnly), Position: e.Position, ID: e.Unit.ID}
}

func (h *Harness) opNormalize(args map[string]any) (any, error) {
	text, err := stringArg(args, "text")
	if err != nil {
		return nil, err
	}
	return hebrew.Normalize(text), nil
}

func (h *Harness) opExact(args map[string]any) (any, error) {
	a, b, err := pairArgs(args, "a", "b")
	if err != nil {
		return nil, err
	}
	return match.Exact(a, b), nil
}

func (h *Harness) opContains(args map[string]any) (any, error) {
	q, c, err := pairArgs(args, "query", "candidate")
	if err != nil {
		return nil, err
	}
	return match.Contains(q, c), nil
}

func (h *Harness) opRatio(args map[string]any) (any, error) {
	a, b, err := pairArgs(args, "a", "b")
	if err != nil {
		return nil, err
	}
	return math.Round(match.Ratio(a, b)*1e4) / 1e4, nil
}

func (h *Harness) opFuzzy(args map[string]any) (any, error) {
	a, b, err := pairArgs(args, "a", "b")
	if err != nil {
		return nil, err
	}
	threshold := match.DefaultThreshold
	if _, ok := args["threshold"]; ok {
		if threshold, err = floatArg(args, "threshold"); err != nil {
			return nil, err
		}
	}
	return match.Fuzzy(a, b, threshold)
}

func (h *Harness) opNumeral(args map[string]any) (any, error) {
	n, err := intArg(args, "n")
	if err != nil {
		return nil, err
	}
	return hebrew.Numeral(n), nil
}

func (h *Harness) opLegacy(args map[string]any) (any, error) {
	pos, err := intArg(args, "position")
	if err != nil {
		return nil, err
	}
	if pos < 0 {
		return nil, errs.OutOfRange("position must be non-negative, got %d", pos)
	}
	return cycle.LegacyAddress(pos).String(), nil
}

func (h *Harness) opDaily(args map[string]any) (any, error) {
	date, err := h.dateArg(args, "date")
	if err != nil {
		return nil, err
	}
	entries, err := h.sched.Window(date, 1, h.index)
	if err != nil {
		return nil, err
	}
	return newDayResult(entries[0]), nil
}

func (h *Harness) opWindow(args map[string]any) (any, error) {
	date, err := h.dateArg(args, "date")
	if err != nil {
		return nil, err
	}
	days, err := intArg(args, "days")
	if err != nil {
		return nil, err
	}
	entries, err := h.sched.Window(date, days, h.index)
	if err != nil {
		return nil, err
	}
	out := make([]dayResult, len(entries))
	for i, e := range entries {
		out[i] = newDayResult(e)
	}
	return out, nil
}

func (h *Harness) opUnit(args map[string]any) (any, error) {
	pos, err := intArg(args, "position")
	if err != nil {
		return nil, err
	}
	u, err := h.index.UnitAt(pos)
	if err != nil {
		return nil, err
	}
	return u.ID, nil
}

func (h *Harness) opResolve(args map[string]any) (any, error) {
	if _, ok := args["id"]; ok {
		id, err := stringArg(args, "id")
		if err != nil {
			return nil, err
		}
		u, err := cycle.ResolveID(h.index, id)
		if err != nil {
			return nil, err
		}
		return u.ID, nil
	}
	chapter, err := intArg(args, "chapter")
	if err != nil {
		return nil, err
	}
	section, err := intArg(args, "section")
	if err != nil {
		return nil, err
	}
	u, err := cycle.Resolve(h.index, cycle.Address{Chapter: chapter, Section: section})
	if err != nil {
		return nil, err
	}
	return u.ID, nil
}

func (h *Harness) opSearch(args map[string]any) (any, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return nil, err
	}
	limit := 0
	if _, ok := args["limit"]; ok {
		if limit, err = intArg(args, "limit"); err != nil {
			return nil, err
		}
	}
	hits := h.index.Search(query, limit)
	ids := make([]string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.Unit.ID
	}
	return ids, nil
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", errs.InvalidArgument("missing arg %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", errs.InvalidArgument("arg %q must be a string", key)
	}
	return s, nil
}

func pairArgs(args map[string]any, k1, k2 string) (string, string, error) {
	a, err := stringArg(args, k1)
	if err != nil {
		return "", "", err
	}
	b, err := stringArg(args, k2)
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}

func intArg(args map[string]any, key string) (int, error) {
	switch v := args[key].(type) {
	case int:
		return v, nil
	case nil:
		return 0, errs.InvalidArgument("missing arg %q", key)
	default:
		return 0, errs.InvalidArgument("arg %q must be an integer", key)
	}
}

func floatArg(args map[string]any, key string) (float64, error) {
	switch v := args[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case nil:
		return 0, errs.InvalidArgument("missing arg %q", key)
	default:
		return 0, errs.InvalidArgument("arg %q must be a number", key)
	}
}

// dateArg parses a YYYY-MM-DD arg as noon of that day in the scheduler's
// zone, so the scheduler sees the same calendar day.
func (h *Harness) dateArg(args map[string]any, key string) (time.Time, error) {
	s, err := stringArg(args, key)
	if err != nil {
		return time.Time{}, err
	}
	d, err := cycle.ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, h.sched.Location()), nil
}
