package stages

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/storypipe/storypipe/message"
)

var colorPalettes = map[string][]string{
	"positive": {"bright blue", "golden yellow", "emerald green", "sky blue", "sunset orange"},
	"negative": {"deep purple", "dark gray", "crimson red", "midnight blue", "storm gray"},
	"neutral":  {"silver", "steel blue", "charcoal", "ocean blue", "mist gray"},
}

var themeScenes = map[string][]string{
	"space":   {"futuristic space station", "distant planet surface", "cosmic nebula", "asteroid field"},
	"fantasy": {"enchanted forest", "mystical castle", "magical realm", "ancient ruins"},
	"modern":  {"urban cityscape", "coastal town", "mountain vista", "tech hub"},
	"robots":  {"futuristic factory", "smart city", "research laboratory", "cyber space"},
}

var moodByTone = map[string]string{
	"positive": "uplifting and vibrant",
	"negative": "brooding and dramatic",
	"neutral":  "calm and contemplative",
}

// imageConcept is stage C1: it derives a visual concept (scene, mood,
// color palette) from the story and its analysis. It reads only its
// snapshot and writes only the image concept field.
type imageConcept struct {
	rng   *rand.Rand
	delay time.Duration
}

func (c *imageConcept) run(_ context.Context, msg *message.Message) (*message.Message, error) {
	pause(c.delay)

	tone := "neutral"
	var kws []string
	if msg.Analysis != nil {
		if msg.Analysis.Sentiment != "" {
			tone = msg.Analysis.Sentiment
		}
		kws = msg.Analysis.Keywords
	}

	theme, _ := msg.Metadata[MetaTheme].(string)
	scenes, ok := themeScenes[theme]
	if !ok {
		scenes = themeScenes["fantasy"]
	}

	visualElements := 0
	for _, w := range strings.Fields(msg.StoryText) {
		if len(w) > 4 {
			visualElements++
		}
	}

	msg.ImageConcept = &message.ImageConcept{
		SceneDescription: c.selectScene(scenes, kws),
		Mood:             moodByTone[tone],
		ColorPalette:     topColors(colorPalettes[tone], 3),
		ArtStyle:         "digital painting",
		VisualElements:   visualElements,
	}
	return msg, nil
}

// selectScene prefers a scene mentioning one of the story keywords,
// falling back to a random candidate.
func (c *imageConcept) selectScene(candidates []string, kws []string) string {
	best, bestScore := "", 0
	for _, scene := range candidates {
		score := 0
		for _, kw := range kws {
			if strings.Contains(strings.ToLower(scene), strings.ToLower(kw)) {
				score += 10
			}
		}
		if score > bestScore {
			best, bestScore = scene, score
		}
	}
	if best != "" {
		return best
	}
	return pick(c.rng, candidates)
}

func topColors(palette []string, n int) []string {
	if len(palette) <= n {
		return append([]string(nil), palette...)
	}
	return append([]string(nil), palette[:n]...)
}
