package timing

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record captures the lifecycle instants of one stage invocation.
//
// ReceivedAt is set the moment the invoker accepts the call, StartedAt when
// the stage body begins processing, and CompletedAt when it returns. The two
// leading instants may be identical for in-process backends, but they stay
// distinct fields so remote backends can report queuing delay.
type Record struct {
	StageName   string
	ReceivedAt  time.Time
	StartedAt   time.Time
	CompletedAt time.Time
}

// Duration returns the processing time (CompletedAt - StartedAt).
// It returns zero while the record is still open.
func (r *Record) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Completed reports whether the record has been closed.
func (r *Record) Completed() bool {
	return !r.CompletedAt.IsZero()
}

// Validate checks the ordering invariant received <= started <= completed.
func (r *Record) Validate() error {
	if r.StageName == "" {
		return fmt.Errorf("timing: record has no stage name")
	}
	if !r.ReceivedAt.IsZero() && !r.StartedAt.IsZero() && r.StartedAt.Before(r.ReceivedAt) {
		return fmt.Errorf("timing: stage %q started before it was received", r.StageName)
	}
	if !r.StartedAt.IsZero() && !r.CompletedAt.IsZero() && r.CompletedAt.Before(r.StartedAt) {
		return fmt.Errorf("timing: stage %q completed before it started", r.StageName)
	}
	return nil
}

// recordJSON is the serialized form of a Record. Wall-clock instants are
// rendered in RFC 3339 alongside raw unix timestamps, matching the output
// shape consumed by the timeline renderer.
type recordJSON struct {
	StageName          string  `json:"stage_name"`
	Received           string  `json:"received,omitempty"`
	ReceivedTimestamp  float64 `json:"received_timestamp,omitempty"`
	Started            string  `json:"started,omitempty"`
	StartedTimestamp   float64 `json:"started_timestamp,omitempty"`
	Completed          string  `json:"completed,omitempty"`
	CompletedTimestamp float64 `json:"completed_timestamp,omitempty"`
	DurationMs         float64 `json:"duration_ms,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{StageName: r.StageName}
	if !r.ReceivedAt.IsZero() {
		out.Received = r.ReceivedAt.Format(time.RFC3339Nano)
		out.ReceivedTimestamp = unixSeconds(r.ReceivedAt)
	}
	if !r.StartedAt.IsZero() {
		out.Started = r.StartedAt.Format(time.RFC3339Nano)
		out.StartedTimestamp = unixSeconds(r.StartedAt)
	}
	if !r.CompletedAt.IsZero() {
		out.Completed = r.CompletedAt.Format(time.RFC3339Nano)
		out.CompletedTimestamp = unixSeconds(r.CompletedAt)
		out.DurationMs = roundMs(r.Duration())
	}
	return json.Marshal(out)
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func roundMs(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	return float64(int64(ms*100+0.5)) / 100
}
