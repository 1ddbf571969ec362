package stages

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/storypipe/storypipe/message"
)

// themeData holds the template vocabulary for one adventure theme.
type themeData struct {
	settings    []string
	characters  []string
	actions     []string
	discoveries []string
}

// themeOrder fixes lookup order so prompt matching is deterministic.
var themeOrder = []string{"space", "fantasy", "modern", "robots"}

var themes = map[string]themeData{
	"space": {
		settings:    []string{"space station", "distant planet", "asteroid field", "nebula", "alien world"},
		characters:  []string{"astronaut", "alien", "robot", "space explorer", "cosmic engineer"},
		actions:     []string{"discovered", "encountered", "explored", "journeyed to", "investigated"},
		discoveries: []string{"ancient artifact", "mysterious signal", "new life form", "lost civilization", "cosmic secret"},
	},
	"fantasy": {
		settings:    []string{"enchanted forest", "ancient castle", "magical kingdom", "mystical realm", "hidden valley"},
		characters:  []string{"wizard", "dragon", "knight", "elf", "magical creature"},
		actions:     []string{"fought", "discovered", "sought", "encountered", "saved"},
		discoveries: []string{"ancient magic", "hidden treasure", "forgotten prophecy", "secret power", "legendary artifact"},
	},
	"modern": {
		settings:    []string{"busy city", "quiet laboratory", "coastal town", "mountain retreat", "tech hub"},
		characters:  []string{"scientist", "detective", "entrepreneur", "artist", "researcher"},
		actions:     []string{"developed", "investigated", "created", "solved", "discovered"},
		discoveries: []string{"breakthrough technology", "hidden truth", "creative solution", "ancient secret", "new perspective"},
	},
	"robots": {
		settings:    []string{"factory", "research lab", "space station", "smart city", "cyber world"},
		characters:  []string{"AI assistant", "robot companion", "cyborg", "engineer", "researcher"},
		actions:     []string{"programmed", "designed", "collaborated with", "learned from", "worked alongside"},
		discoveries: []string{"new capability", "emotional intelligence", "creative solution", "friendship", "understanding"},
	},
}

var openings = []string{
	"Once upon a time",
	"In a world where",
	"Deep in the heart of",
	"Long ago, in the realm of",
	"At the edge of the universe",
	"In a distant galaxy",
	"Many years ago",
	"In a land far, far away",
}

var middleEvents = []string{
	"Along the way, they encountered challenges that tested their resolve.",
	"However, a mysterious obstacle appeared that changed everything.",
	"But their journey was not without unexpected surprises.",
	"Yet, what they found was far more remarkable than expected.",
	"Suddenly, they realized the true nature of their quest.",
}

var conflicts = []string{
	"They had to overcome their fears and work together.",
	"Time was running out, and decisions had to be made quickly.",
	"The stakes were higher than anyone had imagined.",
	"Old rivalries resurfaced, threatening to derail their mission.",
	"Nature itself seemed to conspire against their plans.",
}

var endings = []string{
	"And so, their adventure became legend, inspiring future generations.",
	"The memory of this journey would stay with them forever.",
	"As the sun set, they knew they had found something precious.",
	"In that moment, everything fell into place.",
	"The story continues, but this chapter had come to a beautiful close.",
}

// storyGenerator is stage A: it turns the user prompt into a themed story
// with named characters.
type storyGenerator struct {
	rng   *rand.Rand
	delay time.Duration
}

func (g *storyGenerator) run(_ context.Context, msg *message.Message) (*message.Message, error) {
	pause(g.delay)

	theme := g.extractTheme(msg.UserInput)
	data := themes[theme]

	opening := pick(g.rng, openings)
	setting := pick(g.rng, data.settings)
	character := pick(g.rng, data.characters)
	action := pick(g.rng, data.actions)
	discovery := pick(g.rng, data.discoveries)

	paragraphs := []string{
		fmt.Sprintf("%s, there was a %s who %s the %s. During their quest, they %s a %s that would change everything.",
			opening, character, action, setting, action, discovery),
		pick(g.rng, middleEvents) + " " + pick(g.rng, conflicts),
		pick(g.rng, endings),
	}

	msg.StoryText = strings.Join(paragraphs, "\n\n")
	msg.Metadata[MetaTheme] = theme
	msg.Metadata[MetaCharacters] = g.characterNames(msg.UserInput)
	return msg, nil
}

// extractTheme matches the prompt against known themes in fixed order,
// falling back to a random theme when nothing matches.
func (g *storyGenerator) extractTheme(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, theme := range themeOrder {
		if strings.Contains(lower, theme) {
			return theme
		}
	}
	return pick(g.rng, themeOrder)
}

func (g *storyGenerator) characterNames(prompt string) []string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "robot") || strings.Contains(lower, "ai"):
		return []string{"Rover", "Aria"}
	case strings.Contains(lower, "space"):
		return []string{"Commander Nova", "Stellar"}
	case strings.Contains(lower, "fantasy"):
		return []string{"Luna", "Thorn"}
	default:
		return []string{"Alex", "Morgan"}
	}
}

func pick(rng *rand.Rand, items []string) string {
	return items[rng.Intn(len(items))]
}
