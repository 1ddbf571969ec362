package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/storypipe/storypipe/message"
)

const storyPreviewLen = 300

// ResultsSummary renders the human-readable results of a finished run:
// story preview, analysis highlights, and which media components arrived.
func ResultsSummary(msg *message.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nResults Summary\n%s\n", divider, divider)

	if msg.StoryText != "" {
		words := len(strings.Fields(msg.StoryText))
		preview := msg.StoryText
		if len(preview) > storyPreviewLen {
			preview = preview[:storyPreviewLen] + "..."
		}
		fmt.Fprintf(&b, "\nGenerated Story (%d words):\n%s\n%s\n", words, strings.Repeat("-", 60), preview)
	}

	if a := msg.Analysis; a != nil {
		fmt.Fprintf(&b, "\nAnalysis:\n")
		fmt.Fprintf(&b, "  - Sentiment: %s\n", a.Sentiment)
		fmt.Fprintf(&b, "  - Keywords: %s\n", strings.Join(a.Keywords, ", "))
		if len(a.Characters) > 0 {
			fmt.Fprintf(&b, "  - Characters: %s\n", strings.Join(a.Characters, ", "))
		}
	}

	if ic := msg.ImageConcept; ic != nil {
		fmt.Fprintf(&b, "\nImage Concept:\n")
		fmt.Fprintf(&b, "  - Scene: %s\n", ic.SceneDescription)
		fmt.Fprintf(&b, "  - Mood: %s\n", ic.Mood)
		fmt.Fprintf(&b, "  - Colors: %s\n", strings.Join(ic.ColorPalette, ", "))
	}

	if as := msg.AudioScript; as != nil {
		fmt.Fprintf(&b, "\nAudio Script:\n")
		fmt.Fprintf(&b, "  - Estimated Duration: %.1f minutes\n", as.DurationEstimateMinutes)
		fmt.Fprintf(&b, "  - Tone: %s\n", as.Tone)
	}

	if len(msg.Translations) > 0 {
		langs := make([]string, 0, len(msg.Translations))
		for lang := range msg.Translations {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		fmt.Fprintf(&b, "\nTranslations Available:\n")
		for _, lang := range langs {
			fmt.Fprintf(&b, "  - %s\n", lang)
		}
	}

	if fo := msg.FormattedOutput; fo != nil {
		fmt.Fprintf(&b, "\nFormatted Outputs Available:\n  - markdown\n  - html\n")
	}

	if s := msg.Summary; s != nil {
		fmt.Fprintf(&b, "\nValidation: %d/%d components", s.ComponentsReceived, s.TotalComponents)
		if s.PipelineComplete {
			b.WriteString(" (complete)\n")
		} else {
			b.WriteString(" (incomplete)\n")
		}
	}
	return b.String()
}
