package message

import (
	"github.com/storypipe/storypipe/timing"
)

// Payload field keys, used in merge-conflict and completeness reporting.
const (
	KeyStory           = "story"
	KeyAnalysis        = "analysis"
	KeyImageConcept    = "image_concept"
	KeyAudioScript     = "audio_script"
	KeyTranslations    = "translations"
	KeyFormattedOutput = "formatted_output"
	KeySummary         = "summary"
)

// PayloadKeys lists the five content categories a complete run must carry,
// plus the aggregator's summary.
var PayloadKeys = []string{
	KeyStory, KeyAnalysis, KeyImageConcept, KeyAudioScript,
	KeyTranslations, KeyFormattedOutput,
}

// Analysis holds the story analyzer's output.
type Analysis struct {
	WordCount      int      `json:"word_count"`
	SentenceCount  int      `json:"sentence_count"`
	ParagraphCount int      `json:"paragraph_count"`
	AvgWordLength  float64  `json:"avg_word_length"`
	Sentiment      string   `json:"sentiment"`
	Keywords       []string `json:"keywords"`
	Characters     []string `json:"characters,omitempty"`
}

// ImageConcept holds the visual concept generator's output.
type ImageConcept struct {
	SceneDescription string   `json:"scene_description"`
	Mood             string   `json:"mood"`
	ColorPalette     []string `json:"color_palette"`
	ArtStyle         string   `json:"art_style"`
	VisualElements   int      `json:"visual_elements"`
}

// AudioScript holds the narration script generator's output.
type AudioScript struct {
	NarrationScript         string  `json:"narration_script"`
	DurationEstimateMinutes float64 `json:"duration_estimate_minutes"`
	Tone                    string  `json:"tone"`
	EmphasisCount           int     `json:"emphasis_count"`
	PauseCount              int     `json:"pause_count"`
}

// FormattedOutput holds the rendered story formats.
type FormattedOutput struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
	Title    string `json:"title"`
}

// Summary is the aggregator's final validation package.
type Summary struct {
	PipelineComplete   bool            `json:"pipeline_complete"`
	ComponentsReceived int             `json:"components_received"`
	TotalComponents    int             `json:"total_components"`
	Validation         map[string]bool `json:"validation"`
}

// Message is the envelope passed between pipeline stages.
//
// A message is exclusively owned by the call that holds it: sequential
// stages mutate their own copy and return it; parallel stages receive a
// read-only snapshot (Clone) and return a fragment that only the barrier
// merges. Two concurrently executing stages never share an instance.
type Message struct {
	// UserInput is the original prompt. Set once at pipeline entry.
	UserInput string

	StoryText       string
	Analysis        *Analysis
	ImageConcept    *ImageConcept
	AudioScript     *AudioScript
	Translations    map[string]string
	FormattedOutput *FormattedOutput
	Summary         *Summary

	// Timestamps maps stage keys to their records, one per stage per run.
	Timestamps timing.Set

	// Metadata carries auxiliary annotations (run ID, execution backend).
	// It never affects pipeline control flow.
	Metadata map[string]any
}

// New creates a message holding only the user input.
func New(userInput string) *Message {
	return &Message{
		UserInput:  userInput,
		Timestamps: timing.NewSet(),
		Metadata:   make(map[string]any),
	}
}

// Clone returns a deep snapshot of the message. Parallel stages each get
// their own clone so none can observe another's partial writes.
func (m *Message) Clone() *Message {
	out := &Message{
		UserInput:  m.UserInput,
		StoryText:  m.StoryText,
		Timestamps: m.Timestamps.Clone(),
		Metadata:   make(map[string]any, len(m.Metadata)),
	}
	for k, v := range m.Metadata {
		out.Metadata[k] = v
	}
	if m.Analysis != nil {
		a := *m.Analysis
		a.Keywords = append([]string(nil), m.Analysis.Keywords...)
		a.Characters = append([]string(nil), m.Analysis.Characters...)
		out.Analysis = &a
	}
	if m.ImageConcept != nil {
		ic := *m.ImageConcept
		ic.ColorPalette = append([]string(nil), m.ImageConcept.ColorPalette...)
		out.ImageConcept = &ic
	}
	if m.AudioScript != nil {
		as := *m.AudioScript
		out.AudioScript = &as
	}
	if m.Translations != nil {
		out.Translations = make(map[string]string, len(m.Translations))
		for k, v := range m.Translations {
			out.Translations[k] = v
		}
	}
	if m.FormattedOutput != nil {
		fo := *m.FormattedOutput
		out.FormattedOutput = &fo
	}
	if m.Summary != nil {
		s := *m.Summary
		s.Validation = make(map[string]bool, len(m.Summary.Validation))
		for k, v := range m.Summary.Validation {
			s.Validation[k] = v
		}
		out.Summary = &s
	}
	return out
}

// PopulatedKeys returns the payload keys currently holding values.
func (m *Message) PopulatedKeys() []string {
	var keys []string
	if m.StoryText != "" {
		keys = append(keys, KeyStory)
	}
	if m.Analysis != nil {
		keys = append(keys, KeyAnalysis)
	}
	if m.ImageConcept != nil {
		keys = append(keys, KeyImageConcept)
	}
	if m.AudioScript != nil {
		keys = append(keys, KeyAudioScript)
	}
	if len(m.Translations) > 0 {
		keys = append(keys, KeyTranslations)
	}
	if m.FormattedOutput != nil {
		keys = append(keys, KeyFormattedOutput)
	}
	if m.Summary != nil {
		keys = append(keys, KeySummary)
	}
	return keys
}

// MissingKeys returns the required payload keys the message lacks.
func (m *Message) MissingKeys() []string {
	populated := make(map[string]bool)
	for _, k := range m.PopulatedKeys() {
		populated[k] = true
	}
	var missing []string
	for _, k := range PayloadKeys {
		if !populated[k] {
			missing = append(missing, k)
		}
	}
	return missing
}
