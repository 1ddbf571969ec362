package pipeline

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"

	"github.com/storypipe/storypipe/errors"
	"github.com/storypipe/storypipe/logger"
	"github.com/storypipe/storypipe/message"
	"github.com/storypipe/storypipe/stage"
)

// Metadata keys the orchestrator writes.
const (
	MetaRunID       = "run_id"
	MetaBackend     = "execution_backend"
	MetaState       = "state"
	MetaFailedStage = "failed_stage"
)

// BackendLocal identifies the in-process execution backend.
const BackendLocal = "local"

// Orchestrator composes the Runner and Barrier into the full stage graph
// A -> B -> [C1 || C2 || C3 || C4 under the C hub] -> D.
//
// An Orchestrator is an explicit value constructed with its stage set
// injected; there are no process-wide singletons. It performs no I/O and
// persists nothing: callers own rendering and storage of the result.
type Orchestrator struct {
	invoker stage.Invoker
	barrier *Barrier
	log     *logger.Logger
	backend string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers sets the parallel batch worker bound. Values below the batch
// size are raised to it so all members can progress concurrently.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) { o.barrier.Workers = n }
}

// WithLogger sets the logger for run lifecycle events.
func WithLogger(log *logger.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithBackend overrides the execution backend identifier recorded in run
// metadata. It does not change execution; the invoker does that.
func WithBackend(name string) Option {
	return func(o *Orchestrator) { o.backend = name }
}

// NewOrchestrator creates an Orchestrator over an invoker.
func NewOrchestrator(invoker stage.Invoker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		invoker: invoker,
		barrier: NewBarrier(invoker),
		backend: BackendLocal,
	}
	o.barrier.HubName = stage.NameCHub
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.WithComponent("pipeline")
	}
	return o
}

// Execute runs the full pipeline for a user prompt.
//
// On success the returned message carries exactly one timestamp record per
// stage key and a value for every payload category; reaching the success
// path without the full set is an IncompleteResult contract violation and
// is reported loudly, never patched.
//
// On failure the error names the failing stage(s) and the returned message
// holds whatever partial timestamps exist, with metadata marking the run
// failed. A partial result is never reported as success.
func (o *Orchestrator) Execute(ctx context.Context, userInput string) (*message.Message, error) {
	if strings.TrimSpace(userInput) == "" {
		return nil, errors.InvalidInput("user input must not be empty")
	}

	msg := message.New(userInput)
	msg.Metadata[MetaRunID] = uuid.NewString()
	msg.Metadata[MetaBackend] = o.backend

	state := StateCreated
	o.log.Debug("run started", logger.Fields(
		logger.FieldRunID, msg.Metadata[MetaRunID],
		logger.FieldBackend, o.backend,
	))

	// One runner per run: OnStage closes over this run's state.
	runner := NewRunner(o.invoker)
	runner.OnStage = func(name string) {
		if !state.Terminal() && (name == stage.NameA || name == stage.NameB) {
			state = state.advance()
		}
	}

	current, err := runner.Run(ctx, stage.Sequential(), msg)
	if err != nil {
		return o.fail(msg, state, err)
	}

	merged, err := o.barrier.Run(ctx, stage.Parallel(), current)
	if err != nil {
		if merged == nil {
			merged = current
		}
		return o.fail(merged, state, err)
	}
	state = state.advance()

	final, err := runner.Run(ctx, []string{stage.NameD}, merged)
	if err != nil {
		return o.fail(merged, state, err)
	}
	state = state.advance()

	if err := o.assertComplete(final); err != nil {
		return o.fail(final, state, err)
	}

	final.Metadata[MetaState] = string(state)
	o.log.Info("run completed", logger.Fields(
		logger.FieldRunID, final.Metadata[MetaRunID],
		logger.FieldState, string(state),
		logger.FieldDuration, final.TotalDuration().Milliseconds(),
	))
	return final, nil
}

// fail marks the message as a failed run and propagates the error
// unchanged. This is the only layer that translates internal failures into
// the caller-facing failed-result shape.
func (o *Orchestrator) fail(msg *message.Message, from State, err error) (*message.Message, error) {
	msg.Metadata[MetaState] = string(StateFailed)
	var batch *errors.BatchError
	if stderrors.As(err, &batch) {
		msg.Metadata[MetaFailedStage] = strings.Join(batch.FailedStages(), ",")
	} else if s := errors.StageOf(err); s != "" {
		msg.Metadata[MetaFailedStage] = s
	}

	o.log.Error("run failed", logger.Fields(
		logger.FieldRunID, msg.Metadata[MetaRunID],
		logger.FieldState, string(from),
		logger.FieldError, err.Error(),
	))
	return msg, err
}

// assertComplete enforces the full-set invariant: one timestamp record per
// expected stage key and a value in every payload category.
func (o *Orchestrator) assertComplete(msg *message.Message) error {
	var missing []string
	for _, name := range stage.All() {
		rec := msg.Timestamps.Get(name)
		if rec == nil || !rec.Completed() {
			missing = append(missing, "timestamp:"+name)
			continue
		}
		if err := rec.Validate(); err != nil {
			return errors.IncompleteResult([]string{name}).WithCause(err)
		}
	}
	for _, key := range msg.MissingKeys() {
		missing = append(missing, "payload:"+key)
	}
	if len(missing) > 0 {
		return errors.IncompleteResult(missing)
	}
	return nil
}
