package stages

import (
	"context"
	"time"

	"github.com/storypipe/storypipe/message"
)

// aggregator is stage D: validates that every upstream component arrived
// and attaches the final summary plus aggregate statistics.
type aggregator struct {
	delay time.Duration
}

func (d *aggregator) run(_ context.Context, msg *message.Message) (*message.Message, error) {
	pause(d.delay)

	validation := map[string]bool{
		message.KeyStory:           msg.StoryText != "",
		message.KeyAnalysis:        msg.Analysis != nil,
		message.KeyImageConcept:    msg.ImageConcept != nil,
		message.KeyAudioScript:     msg.AudioScript != nil,
		message.KeyTranslations:    msg.Translations != nil,
		message.KeyFormattedOutput: msg.FormattedOutput != nil,
	}

	received := 0
	for _, ok := range validation {
		if ok {
			received++
		}
	}

	msg.Summary = &message.Summary{
		PipelineComplete:   received == len(validation),
		ComponentsReceived: received,
		TotalComponents:    len(validation),
		Validation:         validation,
	}

	if msg.Analysis != nil {
		msg.Metadata[MetaStatistics] = map[string]any{
			"word_count":        msg.Analysis.WordCount,
			"sentence_count":    msg.Analysis.SentenceCount,
			"paragraph_count":   msg.Analysis.ParagraphCount,
			"sentiment":         msg.Analysis.Sentiment,
			"translation_count": len(msg.Translations),
		}
	}
	return msg, nil
}
