// Package sink persists analyzer results.
//
// The CSV sink is the primary artifact and always runs; the PostgreSQL
// and SQLite sinks are optional database copies keyed by run id so a
// replayed run never duplicates rows. Sinks receive the complete result
// set once, after the sweep finishes.
package sink
