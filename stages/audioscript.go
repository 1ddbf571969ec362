package stages

import (
	"context"
	"strings"
	"time"

	"github.com/storypipe/storypipe/message"
)

// Narration pace used for the duration estimate.
const wordsPerMinute = 150.0

var emphasisTriggers = []string{"discover", "find", "realize", "understand"}

// audioScript is stage C2: it turns the story into a narration script with
// emphasis and pause markers plus a duration estimate.
type audioScript struct {
	delay time.Duration
}

func (c *audioScript) run(_ context.Context, msg *message.Message) (*message.Message, error) {
	pause(c.delay)

	sentences := splitSentences(msg.StoryText)

	var lines []string
	emphasisCount, pauseCount := 0, 0
	for i, sentence := range sentences {
		wordCount := len(strings.Fields(sentence))
		switch {
		case isEmphatic(sentence, wordCount):
			lines = append(lines, "[EMPHASIS] "+sentence+" [PAUSE]")
			emphasisCount++
			pauseCount++
		case i == len(sentences)-1:
			lines = append(lines, sentence+" [FADE_OUT]")
		case wordCount > 15 || i%3 == 0:
			lines = append(lines, sentence+" [PAUSE]")
			pauseCount++
		default:
			lines = append(lines, sentence)
		}
	}

	totalWords := len(strings.Fields(msg.StoryText))
	tone := "neutral"
	if msg.Analysis != nil && msg.Analysis.Sentiment != "" {
		tone = msg.Analysis.Sentiment
		totalWords = msg.Analysis.WordCount
	}

	msg.AudioScript = &message.AudioScript{
		NarrationScript:         strings.Join(lines, " "),
		DurationEstimateMinutes: roundTo(float64(totalWords)/wordsPerMinute, 2),
		Tone:                    tone,
		EmphasisCount:           emphasisCount,
		PauseCount:              pauseCount,
	}
	return msg, nil
}

// isEmphatic marks sentences whose cumulative word weight plus trigger
// bonuses outweigh their length.
func isEmphatic(sentence string, wordCount int) bool {
	score := 0
	for _, w := range strings.Fields(sentence) {
		score += len(w)
		lower := strings.ToLower(w)
		for _, trigger := range emphasisTriggers {
			if strings.Contains(lower, trigger) {
				score += 5
			}
		}
	}
	return score > wordCount*3+wordCount
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range strings.Split(text, ". ") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func roundTo(v float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	return float64(int64(v*scale+0.5)) / scale
}
