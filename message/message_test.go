package message

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/storypipe/storypipe/errors"
	"github.com/storypipe/storypipe/timing"
)

var baseTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// --- Clone tests ---

func TestClone_IsDeep(t *testing.T) {
	msg := New("prompt")
	msg.StoryText = "a story"
	msg.Analysis = &Analysis{WordCount: 2, Keywords: []string{"story"}}
	msg.Translations = map[string]string{"spanish": "una historia"}
	msg.Metadata["theme"] = "space"
	msg.Timestamps["A"] = &timing.Record{StageName: "A", StartedAt: baseTime}

	clone := msg.Clone()
	clone.StoryText = "changed"
	clone.Analysis.WordCount = 99
	clone.Analysis.Keywords[0] = "changed"
	clone.Translations["spanish"] = "changed"
	clone.Metadata["theme"] = "changed"
	clone.Timestamps["A"].CompletedAt = baseTime.Add(time.Second)

	if msg.StoryText != "a story" {
		t.Fatalf("story text leaked: %q", msg.StoryText)
	}
	if msg.Analysis.WordCount != 2 || msg.Analysis.Keywords[0] != "story" {
		t.Fatal("analysis leaked through clone")
	}
	if msg.Translations["spanish"] != "una historia" {
		t.Fatal("translations leaked through clone")
	}
	if msg.Metadata["theme"] != "space" {
		t.Fatal("metadata leaked through clone")
	}
	if msg.Timestamps["A"].Completed() {
		t.Fatal("timestamps leaked through clone")
	}
}

func TestPopulatedAndMissingKeys(t *testing.T) {
	msg := New("prompt")
	if len(msg.PopulatedKeys()) != 0 {
		t.Fatalf("expected no populated keys, got %v", msg.PopulatedKeys())
	}
	if len(msg.MissingKeys()) != len(PayloadKeys) {
		t.Fatalf("expected all keys missing, got %v", msg.MissingKeys())
	}

	msg.StoryText = "text"
	msg.Analysis = &Analysis{}
	populated := msg.PopulatedKeys()
	if len(populated) != 2 {
		t.Fatalf("expected 2 populated keys, got %v", populated)
	}
	for _, key := range msg.MissingKeys() {
		if key == KeyStory || key == KeyAnalysis {
			t.Fatalf("key %s reported missing while populated", key)
		}
	}
}

// --- Merge tests ---

// parallelFragments builds a base (as left by the sequential stages) and
// four disjoint fragments the way parallel stages produce them.
func parallelFragments() (*Message, []*Message) {
	base := New("prompt")
	base.StoryText = "a story"
	base.Analysis = &Analysis{WordCount: 2}
	base.Timestamps["A"] = &timing.Record{StageName: "A", StartedAt: baseTime, CompletedAt: baseTime.Add(time.Millisecond)}

	f1 := base.Clone()
	f1.ImageConcept = &ImageConcept{Mood: "calm"}
	f1.Timestamps["C1"] = &timing.Record{StageName: "C1", StartedAt: baseTime, CompletedAt: baseTime.Add(time.Millisecond)}

	f2 := base.Clone()
	f2.AudioScript = &AudioScript{Tone: "warm"}
	f2.Timestamps["C2"] = &timing.Record{StageName: "C2", StartedAt: baseTime, CompletedAt: baseTime.Add(time.Millisecond)}

	f3 := base.Clone()
	f3.Translations = map[string]string{"spanish": "x"}
	f3.Timestamps["C3"] = &timing.Record{StageName: "C3", StartedAt: baseTime, CompletedAt: baseTime.Add(time.Millisecond)}

	f4 := base.Clone()
	f4.FormattedOutput = &FormattedOutput{Title: "t"}
	f4.Timestamps["C4"] = &timing.Record{StageName: "C4", StartedAt: baseTime, CompletedAt: baseTime.Add(time.Millisecond)}

	return base, []*Message{f1, f2, f3, f4}
}

func TestMergeFragments(t *testing.T) {
	base, frags := parallelFragments()
	merged, err := MergeFragments(base, frags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if merged.ImageConcept == nil || merged.AudioScript == nil ||
		merged.Translations == nil || merged.FormattedOutput == nil {
		t.Fatal("expected all fragment payloads in merged message")
	}
	if merged.StoryText != "a story" || merged.Analysis == nil {
		t.Fatal("expected base payloads preserved")
	}
	for _, name := range []string{"A", "C1", "C2", "C3", "C4"} {
		if !merged.Timestamps.Has(name) {
			t.Fatalf("expected timestamp for %s", name)
		}
	}
}

func TestMergeFragments_OrderIndependent(t *testing.T) {
	base, frags := parallelFragments()
	reversed := []*Message{frags[3], frags[2], frags[1], frags[0]}

	a, err := MergeFragments(base, frags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MergeFragments(base, reversed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	aKeys := strings.Join(a.PopulatedKeys(), ",")
	bKeys := strings.Join(b.PopulatedKeys(), ",")
	if aKeys != bKeys {
		t.Fatalf("merge order changed payload keys: %s vs %s", aKeys, bKeys)
	}
	if a.ImageConcept.Mood != b.ImageConcept.Mood || a.FormattedOutput.Title != b.FormattedOutput.Title {
		t.Fatal("merge order changed payload values")
	}
}

func TestMergeFragments_DoesNotMutateBase(t *testing.T) {
	base, frags := parallelFragments()
	if _, err := MergeFragments(base, frags); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base.ImageConcept != nil || base.Timestamps.Has("C1") {
		t.Fatal("merge mutated the base message")
	}
}

func TestMergeFragments_Conflict(t *testing.T) {
	base, frags := parallelFragments()
	// Second fragment claims the same payload key as the first.
	frags[1].ImageConcept = &ImageConcept{Mood: "other"}
	frags[1].AudioScript = nil

	_, err := MergeFragments(base, frags)
	if err == nil {
		t.Fatal("expected merge conflict")
	}
	if errors.CodeOf(err) != errors.ErrCodeMergeConflict {
		t.Fatalf("expected merge conflict code, got %v", errors.CodeOf(err))
	}
}

// --- JSON tests ---

func TestMarshalJSON_FinalPackageShape(t *testing.T) {
	msg := New("prompt")
	msg.StoryText = "one two three"
	msg.Timestamps["A"] = &timing.Record{
		StageName:   "A",
		StartedAt:   baseTime,
		CompletedAt: baseTime.Add(100 * time.Millisecond),
	}
	msg.Metadata["run_id"] = "r1"

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	story, ok := decoded["story"].(map[string]any)
	if !ok {
		t.Fatalf("expected story object, got %T", decoded["story"])
	}
	if story["word_count"] != float64(3) {
		t.Fatalf("expected word_count 3, got %v", story["word_count"])
	}
	if decoded["total_duration_ms"] != float64(100) {
		t.Fatalf("expected total_duration_ms 100, got %v", decoded["total_duration_ms"])
	}
}

func TestTotalDuration_SpansStages(t *testing.T) {
	msg := New("prompt")
	msg.Timestamps["A"] = &timing.Record{
		StageName: "A", StartedAt: baseTime, CompletedAt: baseTime.Add(50 * time.Millisecond),
	}
	msg.Timestamps["D"] = &timing.Record{
		StageName: "D", StartedAt: baseTime.Add(100 * time.Millisecond), CompletedAt: baseTime.Add(170 * time.Millisecond),
	}
	// Open records do not count.
	msg.Timestamps["B"] = &timing.Record{StageName: "B", StartedAt: baseTime.Add(50 * time.Millisecond)}

	if got := msg.TotalDuration(); got != 170*time.Millisecond {
		t.Fatalf("expected 170ms, got %v", got)
	}
}
