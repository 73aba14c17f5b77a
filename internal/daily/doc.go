// Package daily serves the unit of the day.
//
// Service answers "what is today's unit" from a clock, a cycle.Scheduler and
// a corpus, caching one entry per local calendar day. Watcher re-evaluates on
// a cron schedule and reports when the unit changes, which is how a
// long-running process rolls over at midnight.
package daily
