// Package orchestrator coordinates the summarization workflow: an explicit
// state machine routes work between the fetch, clean, summarize and store
// workers, and a checkpointed entry point makes runs resumable.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"summary-pipeline/domain"
	"summary-pipeline/service"
)

// Step identifies the next action the router dispatches.
type Step string

const (
	// StepFetch runs the fetcher and cleaner.
	StepFetch Step = "fetch"
	// StepSummarize runs the summarizer and the storage worker.
	StepSummarize Step = "summarize"
	// StepDone terminates the run.
	StepDone Step = "done"
)

// maxRouterSteps bounds one run. The automaton needs two dispatches plus the
// terminal check; anything beyond that means a worker is mis-signalling.
const maxRouterSteps = 5

// NextStep is the routing decision, a pure function of accumulated state.
// A saved item unconditionally terminates the run regardless of which worker
// produced it, guarding against loops.
func NextStep(state *domain.WorkflowState) Step {
	if state.SavedItem != nil {
		return StepDone
	}
	if state.Content != nil {
		return StepSummarize
	}
	return StepFetch
}

// Checkpointer persists workflow state after each completed step. The router
// itself is storage-agnostic; the workflow entry point supplies one bound to
// its run record.
type Checkpointer func(ctx context.Context, step Step, state domain.WorkflowState) error

// Router drives one workflow run to completion by re-evaluating the routing
// decision after every worker step. It carries no retry policy of its own;
// retries live in the workers and in the resume job.
type Router struct {
	fetcher    service.FetcherService
	cleaner    service.CleanerService
	summarizer service.SummarizerService
	storage    service.StorageService
	logger     *slog.Logger
}

// NewRouter creates a router over the four pipeline workers.
func NewRouter(
	fetcher service.FetcherService,
	cleaner service.CleanerService,
	summarizer service.SummarizerService,
	storage service.StorageService,
	logger *slog.Logger,
) *Router {
	return &Router{
		fetcher:    fetcher,
		cleaner:    cleaner,
		summarizer: summarizer,
		storage:    storage,
		logger:     logger,
	}
}

// Run drives the state machine until it reaches the terminal state. The
// state may be pre-populated from a checkpoint, in which case completed
// steps are skipped. On failure the returned step names where the run
// stopped, so "generated but not persisted" stays distinguishable from
// "never generated".
func (r *Router) Run(ctx context.Context, ref domain.ContentReference, state *domain.WorkflowState, checkpoint Checkpointer) (Step, error) {
	for i := 0; i < maxRouterSteps; i++ {
		if err := ctx.Err(); err != nil {
			return NextStep(state), err
		}

		step := NextStep(state)

		r.logger.InfoContext(ctx, "router dispatch",
			"content_id", ref.ContentID,
			"step", step)

		switch step {
		case StepDone:
			return StepDone, nil

		case StepFetch:
			raw, _, err := r.fetcher.Fetch(ctx, ref.ContentType, ref.Slug)
			if err != nil {
				return StepFetch, err
			}

			cleaned, err := r.cleaner.Clean(ctx, raw)
			if err != nil {
				return StepFetch, err
			}

			state.Content = cleaned

		case StepSummarize:
			summary, err := r.summarizer.Summarize(ctx, state.Content)
			if err != nil {
				return StepSummarize, err
			}

			saved, err := r.storage.Store(ctx, ref, summary)
			if err != nil {
				return StepSummarize, err
			}

			state.SavedItem = saved
		}

		if checkpoint != nil {
			if err := checkpoint(ctx, step, *state); err != nil {
				return step, fmt.Errorf("failed to checkpoint after %s: %w", step, err)
			}
		}
	}

	return NextStep(state), fmt.Errorf("workflow for %s did not terminate within %d steps", ref.ContentID, maxRouterSteps)
}
