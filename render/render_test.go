package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storypipe/storypipe/message"
	"github.com/storypipe/storypipe/stage"
	"github.com/storypipe/storypipe/timing"
)

func record(name string, start time.Time, dur time.Duration) *timing.Record {
	return &timing.Record{
		StageName:   name,
		ReceivedAt:  start,
		StartedAt:   start,
		CompletedAt: start.Add(dur),
	}
}

func finishedMessage() *message.Message {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	msg := message.New("A space adventure about robots")
	msg.StoryText = "Once upon a time, in a world where robots dreamed.\n\nThey journeyed far."
	msg.Analysis = &message.Analysis{
		WordCount: 13,
		Sentiment: "positive",
		Keywords:  []string{"robots", "world"},
	}
	msg.ImageConcept = &message.ImageConcept{
		SceneDescription: "a vast starfield",
		Mood:             "uplifting",
		ColorPalette:     []string{"deep blue", "silver"},
	}
	msg.AudioScript = &message.AudioScript{DurationEstimateMinutes: 0.5, Tone: "upbeat"}
	msg.Translations = map[string]string{"spanish": "...", "french": "..."}
	msg.FormattedOutput = &message.FormattedOutput{Markdown: "# x", HTML: "<p>x</p>", Title: "Story: x"}
	msg.Summary = &message.Summary{PipelineComplete: true, ComponentsReceived: 6, TotalComponents: 6}

	msg.Timestamps[stage.NameA] = record(stage.NameA, base, 50*time.Millisecond)
	msg.Timestamps[stage.NameB] = record(stage.NameB, base.Add(50*time.Millisecond), 40*time.Millisecond)
	hubStart := base.Add(90 * time.Millisecond)
	for _, name := range stage.Parallel() {
		msg.Timestamps[name] = record(name, hubStart, 60*time.Millisecond)
	}
	msg.Timestamps[stage.NameCHub] = record(stage.NameCHub, hubStart, 60*time.Millisecond)
	msg.Timestamps[stage.NameD] = record(stage.NameD, hubStart.Add(60*time.Millisecond), 20*time.Millisecond)
	return msg
}

func TestTimelineListsStagesInOrder(t *testing.T) {
	out := Timeline(finishedMessage())

	order := []string{
		"Service A: Story Generator",
		"Service B: Story Analyzer",
		"Service C: Parallel Processing Hub",
		"Service C1: Image Concept",
		"Service C4: Formatting",
		"Service D: Final Aggregator",
	}
	last := -1
	for _, name := range order {
		idx := strings.Index(out, name)
		require.GreaterOrEqual(t, idx, 0, "missing %q in timeline", name)
		assert.Greater(t, idx, last, "%q out of order", name)
		last = idx
	}
}

func TestTimelineParallelBatchLine(t *testing.T) {
	out := Timeline(finishedMessage())
	assert.Contains(t, out, "Parallel batch: 4 members")
	assert.Contains(t, out, "wall 60.0ms")
	assert.Contains(t, out, "serial sum 240.0ms")
	assert.Contains(t, out, "speed-up 4.0x")
	assert.Contains(t, out, "Total pipeline duration: 170.0ms")
}

func TestTimelineSkipsMissingStages(t *testing.T) {
	msg := message.New("x")
	msg.Timestamps[stage.NameA] = record(stage.NameA, time.Now(), 10*time.Millisecond)
	out := Timeline(msg)
	assert.Contains(t, out, "Service A: Story Generator")
	assert.NotContains(t, out, "Service B")
	assert.NotContains(t, out, "Parallel batch")
}

func TestResultsSummary(t *testing.T) {
	out := ResultsSummary(finishedMessage())
	assert.Contains(t, out, "Generated Story")
	assert.Contains(t, out, "Sentiment: positive")
	assert.Contains(t, out, "Keywords: robots, world")
	assert.Contains(t, out, "Scene: a vast starfield")
	assert.Contains(t, out, "Estimated Duration: 0.5 minutes")
	assert.Contains(t, out, "- french")
	assert.Contains(t, out, "- spanish")
	assert.Contains(t, out, "Validation: 6/6 components (complete)")
}

func TestResultsSummaryTruncatesPreview(t *testing.T) {
	msg := message.New("x")
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'a'
	}
	msg.StoryText = string(long)
	out := ResultsSummary(msg)
	assert.Contains(t, out, string(long[:300])+"...")
	assert.NotContains(t, out, string(long))
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "package.json")
	require.NoError(t, WriteJSON(finishedMessage(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "A space adventure about robots", decoded["user_input"])
	assert.Contains(t, decoded, "timestamps")
	assert.Contains(t, decoded, "story")
	assert.Contains(t, decoded, "total_duration_ms")
}
