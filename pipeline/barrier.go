package pipeline

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/storypipe/storypipe/errors"
	"github.com/storypipe/storypipe/message"
	"github.com/storypipe/storypipe/stage"
	"github.com/storypipe/storypipe/timing"
)

// Barrier executes a fixed set of independent stages concurrently against a
// shared read-only snapshot of a message, joins them all, and merges their
// disjoint result fragments into one message.
//
// This is the only place the system requires concurrency. Every stage gets
// its own clone of the snapshot, so stages cannot observe each other's
// partial writes; the barrier alone writes the merged message, and only
// after every task has returned.
type Barrier struct {
	invoker stage.Invoker

	// Workers bounds concurrent dispatch. It is raised to the batch size
	// when smaller, so no member queues behind another and the measured
	// batch duration reflects genuine parallelism.
	Workers int

	// HubName is the stage key under which the barrier records its own
	// synthetic timing. Empty means no hub record is written.
	HubName string
}

// NewBarrier creates a Barrier over an invoker.
func NewBarrier(invoker stage.Invoker) *Barrier {
	return &Barrier{invoker: invoker}
}

type memberResult struct {
	name     string
	snapshot *message.Message // the member's private clone; keeps its timing on failure
	fragment *message.Message
	err      error
}

// Run dispatches every stage in stages concurrently and waits for all of
// them (a full barrier — no member is skipped because another finished
// first).
//
// On full success it returns the merged message with the synthetic hub
// record appended. If one or more members fail it still waits for the rest,
// then returns a BatchError enumerating every failed member alongside a
// partial message carrying the timestamps of all members, successes and
// failures alike, for diagnostics.
func (b *Barrier) Run(ctx context.Context, stages []string, msg *message.Message) (*message.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]memberResult, len(stages))

	var wg sync.WaitGroup
	sem := make(chan struct{}, b.concurrency(len(stages)))

	for i, name := range stages {
		wg.Add(1)
		go func(idx int, stageName string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			clone := msg.Clone()
			fragment, err := b.invoker.Invoke(ctx, stageName, clone)
			results[idx] = memberResult{name: stageName, snapshot: clone, fragment: fragment, err: err}
		}(i, name)
	}

	wg.Wait()

	var failures []*errors.AppError
	var fragments []*message.Message
	for _, res := range results {
		if res.err != nil {
			var app *errors.AppError
			if !stderrors.As(res.err, &app) {
				app = errors.StageFailed(res.name, res.err)
			}
			failures = append(failures, app)
			continue
		}
		fragments = append(fragments, res.fragment)
	}

	if len(failures) > 0 {
		partial, mergeErr := message.MergeFragments(msg, fragments)
		if mergeErr != nil {
			// Merge conflicts forfeit the fragments, but the caller's input
			// stays untouched: report over a clone.
			partial = msg.Clone()
		}
		// Failed members recorded timing into their private clones; copy it
		// over so diagnostics keep every member's timestamps.
		for _, res := range results {
			if res.err == nil {
				continue
			}
			if rec := res.snapshot.Timestamps.Get(res.name); rec != nil && !partial.Timestamps.Has(res.name) {
				cp := *rec
				partial.Timestamps[res.name] = &cp
			}
		}
		return partial, errors.NewBatchError(failures)
	}

	merged, err := message.MergeFragments(msg, fragments)
	if err != nil {
		return nil, err
	}

	if b.HubName != "" {
		if err := b.recordHub(merged, stages); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// recordHub writes the barrier's synthetic record: StartedAt is the minimum
// member start and CompletedAt the maximum member completion, so the hub
// duration is max(completed) - min(started) rather than a sum. This is the
// quantity that demonstrates parallel speed-up over serial execution.
func (b *Barrier) recordHub(merged *message.Message, stages []string) error {
	if merged.Timestamps.Has(b.HubName) {
		return errors.DuplicateTimestamp(b.HubName)
	}

	var started, completed time.Time
	for _, name := range stages {
		rec := merged.Timestamps.Get(name)
		if rec == nil {
			return errors.IncompleteResult([]string{name})
		}
		if started.IsZero() || rec.StartedAt.Before(started) {
			started = rec.StartedAt
		}
		if completed.IsZero() || rec.CompletedAt.After(completed) {
			completed = rec.CompletedAt
		}
	}

	merged.Timestamps[b.HubName] = &timing.Record{
		StageName:   b.HubName,
		ReceivedAt:  started,
		StartedAt:   started,
		CompletedAt: completed,
	}
	return nil
}

func (b *Barrier) concurrency(batchSize int) int {
	if b.Workers < batchSize {
		return batchSize
	}
	return b.Workers
}
