// Package timing provides per-stage timestamp records for pipeline runs.
//
// Every stage invocation produces one Record holding the instants a request
// was received, when processing started, and when it completed. Records use
// time.Time values carrying Go's monotonic clock reading, so durations are
// immune to wall-clock adjustments and resolve well below a millisecond.
//
// A Tracker writes records into a message's timestamp map and enforces that
// no stage writes the same key twice within one run.
package timing
