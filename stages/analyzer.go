package stages

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/storypipe/storypipe/message"
)

var positiveWords = wordSet(
	"happy", "joy", "success", "love", "beautiful", "wonderful", "amazing",
	"fantastic", "brilliant", "delighted", "pleased", "excellent", "great",
	"good", "peaceful", "harmony", "cooperation", "friendship", "triumph",
	"victory", "discovery", "hope", "bright", "inspiring", "heroic",
)

var negativeWords = wordSet(
	"sad", "fear", "danger", "evil", "dark", "terrible", "awful",
	"horrible", "difficult", "struggle", "conflict", "failure", "lost",
	"defeat", "crisis", "threat", "worried", "anxious", "trouble",
)

var stopWords = wordSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "as", "is", "was", "are", "were", "be",
	"been", "being", "have", "has", "had", "do", "does", "did", "will",
	"would", "could", "should", "may", "might", "must", "can", "there",
	"their", "they",
)

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	nonWord       = regexp.MustCompile(`[^\w\s]`)
)

// analyzer is stage B: it derives statistics, sentiment, keywords, and
// character references from the generated story.
type analyzer struct {
	delay time.Duration
}

func (a *analyzer) run(_ context.Context, msg *message.Message) (*message.Message, error) {
	if msg.StoryText == "" {
		return nil, fmt.Errorf("story text required for analysis")
	}
	pause(a.delay)

	text := msg.StoryText
	words := strings.Fields(text)

	totalChars := 0
	for _, w := range words {
		totalChars += len(w)
	}
	avgWordLength := 0.0
	if len(words) > 0 {
		avgWordLength = float64(totalChars) / float64(len(words))
	}

	var known []string
	if v, ok := msg.Metadata[MetaCharacters].([]string); ok {
		known = v
	}

	msg.Analysis = &message.Analysis{
		WordCount:      len(words),
		SentenceCount:  countSentences(text),
		ParagraphCount: countParagraphs(text),
		AvgWordLength:  avgWordLength,
		Sentiment:      sentiment(words),
		Keywords:       keywords(text, 5),
		Characters:     known,
	}
	return msg, nil
}

func countSentences(text string) int {
	n := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

func countParagraphs(text string) int {
	n := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// sentiment classifies text as positive, negative, or neutral based on
// word-list hits, requiring a 1.5x margin before leaving neutral.
func sentiment(words []string) string {
	positive, negative := 0, 0
	for _, w := range words {
		clean := strings.Trim(strings.ToLower(w), ".,!?;:")
		if positiveWords[clean] {
			positive++
		}
		if negativeWords[clean] {
			negative++
		}
	}
	switch {
	case float64(positive) > float64(negative)*1.5:
		return "positive"
	case float64(negative) > float64(positive)*1.5:
		return "negative"
	default:
		return "neutral"
	}
}

// keywords returns the topN most frequent meaningful words, ties broken
// alphabetically so output is deterministic.
func keywords(text string, topN int) []string {
	clean := nonWord.ReplaceAllString(strings.ToLower(text), "")
	freq := make(map[string]int)
	for _, w := range strings.Fields(clean) {
		if len(w) > 3 && !stopWords[w] {
			freq[w]++
		}
	}

	type wordCount struct {
		word  string
		count int
	}
	counts := make([]wordCount, 0, len(freq))
	for w, c := range freq {
		counts = append(counts, wordCount{w, c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].word < counts[j].word
	})

	if len(counts) > topN {
		counts = counts[:topN]
	}
	out := make([]string, len(counts))
	for i, wc := range counts {
		out[i] = wc.word
	}
	return out
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
