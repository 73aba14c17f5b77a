// Package corpus holds the ordered, immutable registry of content units.
//
// A content unit is one numbered section (seif) inside a numbered chapter
// (siman). An Index is built once with Load from a static set of records,
// sorted ascending by (chapter, section), and never mutated afterwards. The
// sorted order is the canonical position-to-unit mapping consumed by the
// cycle scheduler. Because an Index is read-only after Load it can be shared
// by any number of goroutines without synchronization.
//
// Unit identifiers are bit-exact and consumed by routing layers:
//
//	{prefix}-{chapter:03d}-s{section}    e.g. kitzur_orach_chaim-001-s3
//
// Records come from a corpus file (YAML, or the JSON chapter files the
// application ships) via ReadFile, and can be checked against the CUE schema
// with Validate before loading.
package corpus
