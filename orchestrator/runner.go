package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"summary-pipeline/config"
	"summary-pipeline/repository"
)

// ResumeJob is the stand-in for an external durable-execution runtime: it
// periodically claims interrupted runs (failed below the attempt cap, or
// running but stale) and re-drives them through the workflow from their last
// checkpoint.
type ResumeJob struct {
	workflow       *Workflow
	checkpointRepo repository.CheckpointRepository
	cfg            config.ResumeConfig
	logger         *slog.Logger
	cancel         context.CancelFunc
	wg             sync.WaitGroup
}

// NewResumeJob creates a resume job over the workflow and checkpoint store.
func NewResumeJob(workflow *Workflow, checkpointRepo repository.CheckpointRepository, cfg config.ResumeConfig, logger *slog.Logger) *ResumeJob {
	return &ResumeJob{
		workflow:       workflow,
		checkpointRepo: checkpointRepo,
		cfg:            cfg,
		logger:         logger,
	}
}

// Start starts the resume loop in a goroutine.
func (j *ResumeJob) Start(ctx context.Context) {
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.run(jobCtx)
	}()
}

// Stop stops the resume loop and waits for it to finish.
func (j *ResumeJob) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
	j.wg.Wait()
}

func (j *ResumeJob) run(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			j.logger.ErrorContext(ctx, "panic in resume job", "panic", rec)
		}
	}()

	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	backoff := time.Duration(0)

	for {
		select {
		case <-ctx.Done():
			j.logger.InfoContext(ctx, "resume job stopped")
			return
		case <-ticker.C:
			if err := j.runOnce(ctx); err != nil {
				backoff = j.nextBackoff(backoff)
				j.logger.WarnContext(ctx, "resume pass failed, backing off",
					"backoff", backoff, "error", err)
				ticker.Reset(backoff)
				continue
			}
			if backoff > 0 {
				j.logger.InfoContext(ctx, "backoff cleared, resuming normal interval")
				backoff = 0
				ticker.Reset(j.cfg.Interval)
			}
		}
	}
}

// runOnce claims one batch of resumable runs and re-drives each. Individual
// run failures are recorded on their run rows and do not fail the pass; only
// a claim error (checkpoint store unreachable) does.
func (j *ResumeJob) runOnce(ctx context.Context) error {
	runs, err := j.checkpointRepo.ClaimResumable(ctx, j.cfg.StaleAfter, j.cfg.MaxRunAttempts, j.cfg.BatchSize)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		return nil
	}

	j.logger.InfoContext(ctx, "claimed resumable runs", "count", len(runs))

	for _, run := range runs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if _, err := j.workflow.Resume(ctx, run); err != nil {
			j.logger.WarnContext(ctx, "resumed run failed again",
				"run_id", run.RunID,
				"content_id", run.Ref.ContentID,
				"attempt", run.Attempts,
				"error", err)
		}
	}

	return nil
}

func (j *ResumeJob) nextBackoff(current time.Duration) time.Duration {
	initial := j.cfg.Interval
	maxB := 5 * time.Minute

	if current == 0 {
		return initial
	}
	next := current * 2
	if next > maxB {
		return maxB
	}
	return next
}
