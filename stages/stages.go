package stages

import (
	"math/rand"
	"time"

	"github.com/storypipe/storypipe/stage"
)

// Metadata keys written by stages.
const (
	MetaTheme      = "theme"
	MetaCharacters = "characters"
	MetaStatistics = "statistics"
)

// Options configures the stage set.
type Options struct {
	// Delay is the artificial per-stage work delay. Zero disables it.
	Delay time.Duration
	// Seed fixes the random source for deterministic output. Zero seeds
	// from the current time.
	Seed int64
}

// Register wires the seven runnable stage functions into a registry under
// their canonical names. The parallel hub has no function of its own; the
// barrier records it.
func Register(reg *stage.Registry, opts Options) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Each stage gets its own source so parallel members never share one.
	newRand := func(offset int64) *rand.Rand {
		return rand.New(rand.NewSource(seed + offset))
	}

	reg.Register(stage.NameA, (&storyGenerator{rng: newRand(0), delay: opts.Delay}).run)
	reg.Register(stage.NameB, (&analyzer{delay: opts.Delay}).run)
	reg.Register(stage.NameC1, (&imageConcept{rng: newRand(1), delay: opts.Delay}).run)
	reg.Register(stage.NameC2, (&audioScript{delay: opts.Delay}).run)
	reg.Register(stage.NameC3, (&translator{delay: opts.Delay}).run)
	reg.Register(stage.NameC4, (&formatter{delay: opts.Delay}).run)
	reg.Register(stage.NameD, (&aggregator{delay: opts.Delay}).run)
}

// pause blocks for the artificial work delay.
func pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
