package pipeline

import (
	"context"

	"github.com/storypipe/storypipe/message"
	"github.com/storypipe/storypipe/stage"
)

// Runner executes an ordered list of stages, feeding each stage's output
// message to the next stage as input.
//
// The runner fails fast: the first failure stops execution and propagates
// unchanged, with the partial message discarded. The caller decides whether
// to report partial timestamps for diagnostics. No stage is retried here;
// retries, if desired, belong to the Invoker backend.
type Runner struct {
	invoker stage.Invoker

	// OnStage, if set, is called after each successful stage with the
	// stage name. The orchestrator uses it to advance its state machine.
	OnStage func(name string)
}

// NewRunner creates a Runner over an invoker.
func NewRunner(invoker stage.Invoker) *Runner {
	return &Runner{invoker: invoker}
}

// Run executes the stages in list order against msg.
func (r *Runner) Run(ctx context.Context, stages []string, msg *message.Message) (*message.Message, error) {
	current := msg
	for _, name := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := r.invoker.Invoke(ctx, name, current)
		if err != nil {
			return nil, err
		}
		current = result
		if r.OnStage != nil {
			r.OnStage(name)
		}
	}
	return current, nil
}
