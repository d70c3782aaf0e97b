package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"summary-pipeline/domain"
	"summary-pipeline/logger"
	"summary-pipeline/repository"
)

// Workflow is the durable entry point of the pipeline. Each run is recorded
// as a checkpoint row; the state is saved after every completed step so a
// crashed run resumes from its last checkpoint rather than from scratch.
// Idempotency comes from the deterministic summary document id, not from
// run deduplication.
type Workflow struct {
	router         *Router
	checkpointRepo repository.CheckpointRepository
	log            *slog.Logger
}

// NewWorkflow creates the workflow entry point.
func NewWorkflow(router *Router, checkpointRepo repository.CheckpointRepository, log *slog.Logger) *Workflow {
	return &Workflow{
		router:         router,
		checkpointRepo: checkpointRepo,
		log:            log,
	}
}

// Run starts a fresh workflow run for the given reference and drives it to
// completion. Returns the store result of the saved summary.
func (w *Workflow) Run(ctx context.Context, ref domain.ContentReference) (*domain.StoreResult, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	run := &domain.WorkflowRun{
		RunID:    uuid.New(),
		Ref:      ref,
		Status:   domain.RunStatusRunning,
		Step:     string(StepFetch),
		Attempts: 1,
	}

	if err := w.checkpointRepo.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	return w.drive(ctx, run)
}

// Resume re-drives a previously claimed run from its last checkpoint.
// Completed steps are skipped because their outputs are already present in
// the restored state.
func (w *Workflow) Resume(ctx context.Context, run *domain.WorkflowRun) (*domain.StoreResult, error) {
	if run == nil {
		return nil, domain.ErrRunNotFound
	}

	w.log.InfoContext(ctx, "resuming workflow run",
		"run_id", run.RunID,
		"content_id", run.Ref.ContentID,
		"attempt", run.Attempts,
		"resume_from", NextStep(&run.State))

	return w.drive(ctx, run)
}

func (w *Workflow) drive(ctx context.Context, run *domain.WorkflowRun) (*domain.StoreResult, error) {
	ctx = logger.WithRunID(ctx, run.RunID.String())
	log := logger.FromContext(ctx, w.log)

	checkpoint := func(ctx context.Context, step Step, state domain.WorkflowState) error {
		return w.checkpointRepo.SaveState(ctx, run.RunID, string(step), state)
	}

	failedStep, err := w.router.Run(ctx, run.Ref, &run.State, checkpoint)
	if err != nil {
		log.ErrorContext(ctx, "workflow run failed",
			"content_id", run.Ref.ContentID,
			"step", failedStep,
			"error", err)

		// Missing, unknown-kind or structurally broken documents stay broken
		// no matter how often the run is re-driven; abandon those instead of
		// leaving them for the resume job.
		if domain.IsPermanentError(err) {
			if markErr := w.checkpointRepo.MarkAbandoned(ctx, run.RunID, string(failedStep), err.Error()); markErr != nil {
				log.ErrorContext(ctx, "failed to record run abandonment", "error", markErr)
			}
		} else if markErr := w.checkpointRepo.MarkFailed(ctx, run.RunID, string(failedStep), err.Error()); markErr != nil {
			log.ErrorContext(ctx, "failed to record run failure", "error", markErr)
		}

		return nil, fmt.Errorf("workflow failed at step %s: %w", failedStep, err)
	}

	saved := run.State.SavedItem
	if saved == nil {
		// Terminal without a saved item would mean the automaton is broken.
		err := fmt.Errorf("workflow for %s terminated without a saved summary", run.Ref.ContentID)
		if markErr := w.checkpointRepo.MarkFailed(ctx, run.RunID, string(StepDone), err.Error()); markErr != nil {
			log.ErrorContext(ctx, "failed to record run failure", "error", markErr)
		}
		return nil, err
	}

	if err := w.checkpointRepo.MarkCompleted(ctx, run.RunID, saved.SummaryID); err != nil {
		log.ErrorContext(ctx, "failed to record run completion", "error", err)
	}

	log.InfoContext(ctx, "workflow run completed",
		"content_id", run.Ref.ContentID,
		"summary_id", saved.SummaryID)

	return saved, nil
}
