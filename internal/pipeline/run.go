package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/trackresolve/core/internal/external"
	"github.com/trackresolve/core/internal/model"
)

// NewRunID mints a random run id for callers that don't already have one
// of their own (e.g. a caller-supplied playlist job id).
func NewRunID() string { return uuid.NewString() }

// Runner processes every intent in a playlist run and dispatches exactly
// one RunSummary notification per run id, even under concurrent calls to
// Finish. This replaces the teacher's pattern of a shared mutable status
// struct with an explicit, once-only decision-edge record per §7.
type Runner struct {
	Deps     Dependencies
	Notifier external.Notifier

	mu       sync.Mutex
	outcomes map[external.RunOutcome]int
	edges    []model.DecisionEdge
	notified atomic.Bool
}

// NewRunner builds a Runner ready to accept ProcessOne calls for a single
// run id.
func NewRunner(deps Dependencies, notifier external.Notifier) *Runner {
	return &Runner{
		Deps:     deps,
		Notifier: notifier,
		outcomes: make(map[external.RunOutcome]int),
	}
}

// ProcessOne runs a single playlist entry through Process and folds its
// outcome into the run's running tally.
func (r *Runner) ProcessOne(ctx context.Context, playlistID string, intent model.Intent) Outcome {
	out := Process(ctx, r.Deps, playlistID, intent)

	r.mu.Lock()
	r.outcomes[out.Status]++
	r.edges = append(r.edges, out.Edge)
	r.mu.Unlock()

	return out
}

// Finish dispatches the accumulated RunSummary to the Notifier exactly
// once. Subsequent calls for the same Runner are no-ops, guarded by an
// atomic compare-and-swap rather than a lock, so concurrent callers
// racing to finish a run never double-notify.
func (r *Runner) Finish(ctx context.Context, runID string) error {
	if !r.notified.CompareAndSwap(false, true) {
		return nil
	}

	r.mu.Lock()
	summary := external.RunSummary{
		RunID:    runID,
		Outcomes: copyOutcomes(r.outcomes),
		Edges:    append([]model.DecisionEdge(nil), r.edges...),
	}
	r.mu.Unlock()

	if r.Notifier == nil {
		return nil
	}
	if err := r.Notifier.NotifyRunSummary(ctx, summary); err != nil {
		return fmt.Errorf("pipeline: notifying run summary for %s: %w", runID, err)
	}
	return nil
}

func copyOutcomes(m map[external.RunOutcome]int) map[external.RunOutcome]int {
	out := make(map[external.RunOutcome]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
