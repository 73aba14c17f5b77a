package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_ResolvesCorpusPath(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/daily_cycle.yaml")
	require.NoError(t, err)

	assert.Equal(t, "daily_cycle", s.Name)
	assert.Equal(t, filepath.Join("testdata", "corpus.yaml"), s.Corpus)
	assert.Len(t, s.Flow, 16)
	require.NotNil(t, s.Flow[0].Expect)
	assert.Equal(t, map[string]any{"date": "2026-10-19"}, s.Flow[0].Args)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"unknown_op.yaml", `unknown op "transliterate"`},
		{"needs_corpus.yaml", `op "daily" needs a corpus`},
		{"typo.yaml", "failed to parse YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := LoadScenario(filepath.Join("testdata", "invalid", tt.file))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestValidateScenario_RequiredFields(t *testing.T) {
	flow := []FlowStep{{Op: "normalize", Args: map[string]any{"text": "x"}}}

	tests := []struct {
		name     string
		scenario Scenario
		want     string
	}{
		{"no name", Scenario{Description: "d", Flow: flow}, "name is required"},
		{"no description", Scenario{Name: "n", Flow: flow}, "description is required"},
		{"no flow", Scenario{Name: "n", Description: "d"}, "flow list is required"},
		{"nil args", Scenario{Name: "n", Description: "d", Flow: []FlowStep{{Op: "normalize"}}}, "args is required"},
		{"missing corpus file", Scenario{Name: "n", Description: "d", Corpus: "testdata/none.yaml", Flow: flow}, "corpus not found"},
		{"bad assertion", Scenario{Name: "n", Description: "d", Flow: flow, Assertions: []Assertion{{Type: "trace_magic"}}}, "unknown assertion type"},
		{"order without ops", Scenario{Name: "n", Description: "d", Flow: flow, Assertions: []Assertion{{Type: AssertTraceOrder}}}, "ops list is required"},
		{"negative count", Scenario{Name: "n", Description: "d", Flow: flow, Assertions: []Assertion{{Type: AssertTraceCount, Op: "normalize", Count: -1}}}, "non-negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.scenario
			err := validateScenario(&s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
