package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Corpus is the corpus path, relative to the scenario file.
	// Required by the daily, window, unit, resolve and search operations.
	Corpus string `yaml:"corpus,omitempty"`

	// Anchor overrides the cycle anchor (YYYY-MM-DD).
	Anchor string `yaml:"anchor,omitempty"`

	// Timezone is the IANA zone calendar days are taken in. Defaults to UTC.
	Timezone string `yaml:"timezone,omitempty"`

	// Flow lists the operations to execute in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// FlowStep is one operation with optional expectations.
type FlowStep struct {
	Op     string         `yaml:"op"`
	Args   map[string]any `yaml:"args"`
	Expect *ExpectClause  `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
// Set Error to expect a failure with that error code; otherwise Result, if
// present, is compared with the step's result.
type ExpectClause struct {
	Result any    `yaml:"result,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// Assertion validates the trace.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count, distinct_results.
	Type string `yaml:"type"`

	// Op is the operation name (trace_contains, trace_count, distinct_results).
	Op string `yaml:"op,omitempty"`

	// Args and Result select events for trace_contains (subset match).
	Args   map[string]any `yaml:"args,omitempty"`
	Result any            `yaml:"result,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Ops is the expected operation order (trace_order).
	Ops []string `yaml:"ops,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains   = "trace_contains"
	AssertTraceOrder      = "trace_order"
	AssertTraceCount      = "trace_count"
	AssertDistinctResults = "distinct_results"
)

// LoadScenario reads and parses a scenario YAML file.
// The corpus path is resolved relative to the file. Unknown fields are
// rejected to catch typos.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Corpus != "" && !filepath.IsAbs(scenario.Corpus) {
		scenario.Corpus = filepath.Join(filepath.Dir(path), scenario.Corpus)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	if s.Corpus != "" {
		if _, err := os.Stat(s.Corpus); err != nil {
			return fmt.Errorf("corpus not found: %s", s.Corpus)
		}
	}

	for i, step := range s.Flow {
		op, ok := operations[step.Op]
		if !ok {
			return fmt.Errorf("flow[%d]: unknown op %q", i, step.Op)
		}
		if op.needsCorpus && s.Corpus == "" {
			return fmt.Errorf("flow[%d]: op %q needs a corpus", i, step.Op)
		}
		if step.Args == nil {
			return fmt.Errorf("flow[%d]: args is required (use empty map if no args)", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceContains, AssertDistinctResults:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for %s", index, a.Type)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
