package stages

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/storypipe/storypipe/message"
)

// Keyword-substitution dictionaries per target language. Phrases are
// replaced longest-first so multi-word matches win over single words.
var translationDictionaries = map[string]map[string]string{
	"spanish": {
		"Once upon a time": "Había una vez",
		"in a world where": "en un mundo donde",
		"they discovered":  "descubrieron",
		"journeyed to":     "viajaron a",
		"encountered":      "encontraron",
		"And so":           "Y así",
		"forever":          "para siempre",
		"adventure":        "aventura",
		"discovery":        "descubrimiento",
		"space":            "espacio",
		"robot":            "robot",
		"story":            "historia",
	},
	"french": {
		"Once upon a time": "Il était une fois",
		"in a world where": "dans un monde où",
		"they discovered":  "ils ont découvert",
		"journeyed to":     "voyagé vers",
		"encountered":      "rencontré",
		"And so":           "Et ainsi",
		"forever":          "pour toujours",
		"adventure":        "aventure",
		"discovery":        "découverte",
		"space":            "espace",
		"robot":            "robot",
		"story":            "histoire",
	},
}

var targetLanguages = []string{"spanish", "french"}

// translator is stage C3: keyword-substitution translation of the story
// into the target languages.
type translator struct {
	delay time.Duration
}

func (c *translator) run(_ context.Context, msg *message.Message) (*message.Message, error) {
	pause(c.delay)

	translations := make(map[string]string, len(targetLanguages))
	for _, lang := range targetLanguages {
		translations[lang] = substitute(msg.StoryText, translationDictionaries[lang])
	}

	msg.Translations = translations
	return msg, nil
}

func substitute(text string, dict map[string]string) string {
	// Longest phrases first, then alphabetical for determinism.
	phrases := make([]string, 0, len(dict))
	for phrase := range dict {
		phrases = append(phrases, phrase)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})

	out := text
	for _, phrase := range phrases {
		out = strings.ReplaceAll(out, phrase, dict[phrase])
	}
	return out
}
