package harness

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		if ev.Error != "" {
			fmt.Fprintf(&buf, "  [%d] %s %v -> %s\n", ev.Seq, ev.Op, ev.Args, ev.Error)
			continue
		}
		fmt.Fprintf(&buf, "  [%d] %s %v -> %v\n", ev.Seq, ev.Op, ev.Args, ev.Result)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the result's trace and
// returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for _, a := range assertions {
		if err := evaluateAssertion(result.Trace, a); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluateAssertion(trace []TraceEvent, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(trace, a)
	case AssertTraceCount:
		return assertTraceCount(trace, a)
	case AssertDistinctResults:
		return assertDistinctResults(trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertTraceContains checks for a successful step with the given op whose
// args and result contain the expected ones.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if ev.Op != a.Op || ev.Error != "" {
			continue
		}
		if a.Args != nil && !subsetMatch(canonical(a.Args), canonical(ev.Args)) {
			continue
		}
		if a.Result != nil && !subsetMatch(canonical(a.Result), canonical(ev.Result)) {
			continue
		}
		return nil
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("op %s with args %v and result %v", a.Op, a.Args, a.Result),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the first occurrences of the ops appear in
// the given order. Other steps may come in between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, ev := range trace {
		if _, seen := positions[ev.Op]; !seen {
			positions[ev.Op] = i + 1
		}
	}

	for _, op := range a.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", a.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Ops); i++ {
		prev, curr := a.Ops[i-1], a.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", a.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that op was executed exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Op == a.Op {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%s executed %d times", a.Op, a.Count),
			Actual:   fmt.Sprintf("executed %d times", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertDistinctResults checks that no two successful steps of op produced
// the same result.
func assertDistinctResults(trace []TraceEvent, a Assertion) error {
	seen := make(map[string]int64)
	for _, ev := range trace {
		if ev.Op != a.Op || ev.Error != "" {
			continue
		}
		data, err := json.Marshal(ev.Result)
		if err != nil {
			return fmt.Errorf("encode result of step %d: %w", ev.Seq, err)
		}
		key := string(data)
		if prev, dup := seen[key]; dup {
			return &AssertionError{
				Type:     AssertDistinctResults,
				Expected: fmt.Sprintf("distinct results for %s", a.Op),
				Actual:   fmt.Sprintf("steps %d and %d both returned %s", prev, ev.Seq, key),
				Trace:    trace,
			}
		}
		seen[key] = ev.Seq
	}
	return nil
}
