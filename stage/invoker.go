package stage

import (
	"context"
	"fmt"

	"github.com/storypipe/storypipe/errors"
	"github.com/storypipe/storypipe/message"
	"github.com/storypipe/storypipe/timing"
)

// Invoker executes a named stage against a message. Implementations return
// the updated message with exactly one new timestamp record appended for
// the stage, or a tagged failure carrying the stage name and cause.
type Invoker interface {
	Invoke(ctx context.Context, name string, msg *message.Message) (*message.Message, error)
}

// Local executes registered stage functions in-process.
//
// ReceivedAt is recorded the instant the call is accepted and StartedAt the
// instant the stage body begins. The two are near-identical locally but
// remain distinct fields so remote backends can expose queuing delay.
type Local struct {
	registry *Registry
	tracker  timing.Tracker
}

// NewLocal creates a Local invoker over a stage registry.
func NewLocal(registry *Registry) *Local {
	return &Local{registry: registry}
}

// Invoke runs the stage synchronously. A stage body that panics is
// recovered and reported as a stage failure rather than taking down the
// concurrent batch it may be part of.
func (l *Local) Invoke(ctx context.Context, name string, msg *message.Message) (out *message.Message, err error) {
	fn, ok := l.registry.Get(name)
	if !ok {
		return nil, errors.StageNotRegistered(name)
	}
	if msg.Timestamps.Has(name) {
		return nil, errors.DuplicateTimestamp(name)
	}

	l.tracker.MarkReceived(msg.Timestamps, name)

	defer func() {
		if r := recover(); r != nil {
			// Close the record at failure time, same as the error path.
			l.tracker.MarkCompleted(msg.Timestamps, name)
			err = errors.StageFailed(name, fmt.Errorf("panic: %v", r))
		}
	}()

	l.tracker.MarkStarted(msg.Timestamps, name)
	result, stageErr := fn(ctx, msg)

	if stageErr != nil {
		// Close the record at failure time so diagnostics keep the timing.
		if _, markErr := l.tracker.MarkCompleted(msg.Timestamps, name); markErr != nil {
			return nil, errors.StageFailed(name, markErr)
		}
		return nil, errors.StageFailed(name, stageErr)
	}
	if result == nil {
		return nil, errors.StageFailed(name, fmt.Errorf("stage returned no message"))
	}
	if result != msg && !result.Timestamps.Has(name) {
		// A stage that built a fresh message drops the open record; carry
		// it over so completion keeps the received and started marks.
		if rec := msg.Timestamps.Get(name); rec != nil {
			cp := *rec
			result.Timestamps[name] = &cp
		}
	}

	if _, markErr := l.tracker.MarkCompleted(result.Timestamps, name); markErr != nil {
		return nil, errors.StageFailed(name, markErr)
	}
	return result, nil
}
