package timing

import (
	"fmt"
	"time"
)

// Set maps stage names to their timestamp records for one pipeline run.
// Insertion happens in call order; lookups are by key. Keys are unique:
// one record per stage per run.
type Set map[string]*Record

// NewSet creates an empty timestamp set.
func NewSet() Set {
	return make(Set)
}

// Get returns the record for a stage, or nil if the stage has not run.
func (s Set) Get(stage string) *Record {
	return s[stage]
}

// Has reports whether a record exists for the stage.
func (s Set) Has(stage string) bool {
	_, ok := s[stage]
	return ok
}

// Clone returns a deep copy of the set. Records are copied by value so the
// clone shares nothing with the original.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for name, rec := range s {
		cp := *rec
		out[name] = &cp
	}
	return out
}

// Tracker stamps lifecycle instants into a Set. The zero value is usable.
type Tracker struct {
	// now is swappable for tests.
	now func() time.Time
}

func (t *Tracker) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

// MarkReceived records the instant a stage call was accepted, creating the
// record if needed.
func (t *Tracker) MarkReceived(set Set, stage string) *Record {
	rec := t.ensure(set, stage)
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = t.clock()
	}
	return rec
}

// MarkStarted records the instant stage processing began. ReceivedAt is
// backfilled if the caller skipped MarkReceived.
func (t *Tracker) MarkStarted(set Set, stage string) *Record {
	rec := t.ensure(set, stage)
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = t.clock()
	}
	rec.StartedAt = t.clock()
	return rec
}

// MarkCompleted closes the record. A record is immutable once completed;
// closing it a second time is an error.
func (t *Tracker) MarkCompleted(set Set, stage string) (*Record, error) {
	rec := t.ensure(set, stage)
	if rec.Completed() {
		return nil, fmt.Errorf("timing: stage %q already completed", stage)
	}
	rec.CompletedAt = t.clock()
	return rec, rec.Validate()
}

func (t *Tracker) ensure(set Set, stage string) *Record {
	if rec, ok := set[stage]; ok {
		return rec
	}
	rec := &Record{StageName: stage}
	set[stage] = rec
	return rec
}
