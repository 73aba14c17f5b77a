// Package harness runs conformance scenarios against the normalization,
// matching and scheduling core.
//
// A scenario is a YAML file naming a corpus and a flow of operations, each
// with optional expectations:
//
//	name: daily_rollover
//	description: consecutive days walk the corpus in order
//	corpus: ../corpus/corpus.yaml
//	flow:
//	  - op: daily
//	    args: {date: "2026-10-19"}
//	    expect:
//	      result: {id: kitzur_orach_chaim-002-s4}
//	assertions:
//	  - type: trace_count
//	    op: daily
//	    count: 1
//
// Every executed step is appended to the trace with its arguments, its
// result or error code, and a sequence number. RunWithGolden snapshots that
// trace with goldie so any behavioral drift shows up as a golden diff.
//
// # Operations
//
//   - normalize {text}
//   - exact {a, b}, contains {query, candidate}
//   - ratio {a, b}, fuzzy {a, b, threshold?}
//   - daily {date}, window {date, days}
//   - unit {position}, resolve {chapter, section} or {id}, legacy {position}
//   - search {query, limit?}
//   - numeral {n}
//
// Expected results are compared after a JSON round trip; objects use subset
// semantics, so an expectation only names the fields it cares about.
// An expected error is given by code (e.g. INVALID_ARGUMENT).
package harness
