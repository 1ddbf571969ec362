package timing

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// fakeClock returns strictly increasing instants, one second apart.
func fakeClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(time.Second)
		return now
	}
}

var baseTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// --- Record tests ---

func TestRecord_Duration(t *testing.T) {
	rec := &Record{
		StageName:   "A",
		StartedAt:   baseTime,
		CompletedAt: baseTime.Add(250 * time.Millisecond),
	}
	if got := rec.Duration(); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", got)
	}
}

func TestRecord_DurationOpen(t *testing.T) {
	rec := &Record{StageName: "A", StartedAt: baseTime}
	if got := rec.Duration(); got != 0 {
		t.Fatalf("expected zero duration for open record, got %v", got)
	}
}

func TestRecord_ValidateOrdering(t *testing.T) {
	rec := &Record{
		StageName:   "A",
		ReceivedAt:  baseTime,
		StartedAt:   baseTime.Add(time.Millisecond),
		CompletedAt: baseTime.Add(2 * time.Millisecond),
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecord_ValidateStartedBeforeReceived(t *testing.T) {
	rec := &Record{
		StageName:  "A",
		ReceivedAt: baseTime.Add(time.Second),
		StartedAt:  baseTime,
	}
	if err := rec.Validate(); err == nil {
		t.Fatal("expected error for started before received")
	}
}

func TestRecord_ValidateCompletedBeforeStarted(t *testing.T) {
	rec := &Record{
		StageName:   "A",
		StartedAt:   baseTime.Add(time.Second),
		CompletedAt: baseTime,
	}
	if err := rec.Validate(); err == nil {
		t.Fatal("expected error for completed before started")
	}
}

func TestRecord_ValidateNoName(t *testing.T) {
	rec := &Record{}
	if err := rec.Validate(); err == nil {
		t.Fatal("expected error for missing stage name")
	}
}

func TestRecord_MarshalJSON(t *testing.T) {
	rec := &Record{
		StageName:   "B",
		ReceivedAt:  baseTime,
		StartedAt:   baseTime,
		CompletedAt: baseTime.Add(40 * time.Millisecond),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"stage_name":"B"`, `"received"`, `"started_timestamp"`, `"duration_ms":40`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in %s", want, s)
		}
	}
}

func TestRecord_MarshalJSONOpenRecord(t *testing.T) {
	rec := &Record{StageName: "B", ReceivedAt: baseTime}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(data)
	if strings.Contains(s, "completed") || strings.Contains(s, "duration_ms") {
		t.Fatalf("open record must not serialize completion fields: %s", s)
	}
}

// --- Set tests ---

func TestSet_GetHas(t *testing.T) {
	set := NewSet()
	if set.Has("A") {
		t.Fatal("expected empty set")
	}
	set["A"] = &Record{StageName: "A"}
	if !set.Has("A") {
		t.Fatal("expected record for A")
	}
	if set.Get("A") == nil || set.Get("B") != nil {
		t.Fatal("Get returned wrong records")
	}
}

func TestSet_CloneIsDeep(t *testing.T) {
	set := NewSet()
	set["A"] = &Record{StageName: "A", StartedAt: baseTime}

	clone := set.Clone()
	clone["A"].CompletedAt = baseTime.Add(time.Second)
	clone["B"] = &Record{StageName: "B"}

	if set["A"].Completed() {
		t.Fatal("mutating clone leaked into original record")
	}
	if set.Has("B") {
		t.Fatal("adding to clone leaked into original set")
	}
}

// --- Tracker tests ---

func TestTracker_Lifecycle(t *testing.T) {
	tracker := Tracker{now: fakeClock(baseTime)}
	set := NewSet()

	tracker.MarkReceived(set, "A")
	tracker.MarkStarted(set, "A")
	rec, err := tracker.MarkCompleted(set, "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.ReceivedAt != baseTime {
		t.Fatalf("expected received at %v, got %v", baseTime, rec.ReceivedAt)
	}
	if !rec.StartedAt.After(rec.ReceivedAt) && rec.StartedAt != rec.ReceivedAt {
		t.Fatalf("started %v must not precede received %v", rec.StartedAt, rec.ReceivedAt)
	}
	if !rec.Completed() {
		t.Fatal("expected completed record")
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTracker_StartedBackfillsReceived(t *testing.T) {
	tracker := Tracker{now: fakeClock(baseTime)}
	set := NewSet()

	rec := tracker.MarkStarted(set, "A")
	if rec.ReceivedAt.IsZero() {
		t.Fatal("expected received to be backfilled")
	}
}

func TestTracker_DoubleCompleteFails(t *testing.T) {
	tracker := Tracker{now: fakeClock(baseTime)}
	set := NewSet()

	tracker.MarkStarted(set, "A")
	if _, err := tracker.MarkCompleted(set, "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tracker.MarkCompleted(set, "A"); err == nil {
		t.Fatal("expected error on second completion")
	}
}

func TestTracker_ReceivedIdempotent(t *testing.T) {
	tracker := Tracker{now: fakeClock(baseTime)}
	set := NewSet()

	first := tracker.MarkReceived(set, "A")
	second := tracker.MarkReceived(set, "A")
	if first != second {
		t.Fatal("expected the same record")
	}
	if first.ReceivedAt != baseTime {
		t.Fatalf("expected first receive instant kept, got %v", first.ReceivedAt)
	}
}

func TestTracker_ZeroValueUsesWallClock(t *testing.T) {
	var tracker Tracker
	set := NewSet()

	before := time.Now()
	rec := tracker.MarkReceived(set, "A")
	after := time.Now()

	if rec.ReceivedAt.Before(before) || rec.ReceivedAt.After(after) {
		t.Fatalf("expected wall-clock instant, got %v", rec.ReceivedAt)
	}
}
