package message

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/storypipe/storypipe/timing"
)

// storyJSON wraps the story text with its word count for serialized output.
type storyJSON struct {
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
}

type messageJSON struct {
	UserInput       string                 `json:"user_input"`
	Timestamps      timing.Set             `json:"timestamps"`
	Story           *storyJSON             `json:"story,omitempty"`
	Analysis        *Analysis              `json:"analysis,omitempty"`
	ImageConcept    *ImageConcept          `json:"image_concept,omitempty"`
	AudioScript     *AudioScript           `json:"audio_script,omitempty"`
	Translations    map[string]string      `json:"translations,omitempty"`
	FormattedOutput *FormattedOutput       `json:"formatted_output,omitempty"`
	Summary         *Summary               `json:"summary,omitempty"`
	Metadata        map[string]any         `json:"metadata,omitempty"`
	TotalDurationMs float64                `json:"total_duration_ms,omitempty"`
}

// MarshalJSON serializes the message as the final package shape the
// presentation layer persists: snake_case keys, per-stage timestamp
// records, and the total wall span across all stages.
func (m *Message) MarshalJSON() ([]byte, error) {
	out := messageJSON{
		UserInput:       m.UserInput,
		Timestamps:      m.Timestamps,
		Analysis:        m.Analysis,
		ImageConcept:    m.ImageConcept,
		AudioScript:     m.AudioScript,
		FormattedOutput: m.FormattedOutput,
		Summary:         m.Summary,
	}
	if m.StoryText != "" {
		out.Story = &storyJSON{
			Text:      m.StoryText,
			WordCount: len(strings.Fields(m.StoryText)),
		}
	}
	if len(m.Translations) > 0 {
		out.Translations = m.Translations
	}
	if len(m.Metadata) > 0 {
		out.Metadata = m.Metadata
	}
	if d := m.TotalDuration(); d > 0 {
		out.TotalDurationMs = float64(d) / float64(time.Millisecond)
	}
	return json.Marshal(out)
}

// TotalDuration returns the wall span from the earliest StartedAt to the
// latest CompletedAt across all recorded stages.
func (m *Message) TotalDuration() time.Duration {
	var earliest, latest time.Time
	for _, rec := range m.Timestamps {
		if rec.StartedAt.IsZero() || rec.CompletedAt.IsZero() {
			continue
		}
		if earliest.IsZero() || rec.StartedAt.Before(earliest) {
			earliest = rec.StartedAt
		}
		if latest.IsZero() || rec.CompletedAt.After(latest) {
			latest = rec.CompletedAt
		}
	}
	if earliest.IsZero() || latest.IsZero() {
		return 0
	}
	return latest.Sub(earliest)
}
