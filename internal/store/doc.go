// Package store persists the corpus and the question forum in SQLite.
//
// The store is an import target, not the source of truth for scheduling:
// LoadCorpus returns a corpus.Source that is indexed and validated exactly
// like one read from disk.
//
// # Tables
//
//   - meta: key/value pairs, currently the corpus prefix
//   - sections: one row per corpus unit, keyed by (chapter, section)
//   - questions: forum questions with their optional answer
//   - question_tags: ordered tags, cascading with their question
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000ms
//   - foreign_keys=ON
//
// The schema version is tracked in PRAGMA user_version and migrations run on
// every Open.
package store
