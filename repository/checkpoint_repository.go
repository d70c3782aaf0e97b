package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"summary-pipeline/domain"
)

const checkpointSchema = `
CREATE TABLE IF NOT EXISTS workflow_runs (
	run_id        UUID PRIMARY KEY,
	content_id    TEXT NOT NULL,
	content_type  TEXT NOT NULL,
	slug          TEXT NOT NULL,
	status        TEXT NOT NULL,
	step          TEXT NOT NULL,
	state         JSONB NOT NULL,
	attempts      INT NOT NULL DEFAULT 1,
	summary_id    TEXT,
	error_message TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_workflow_runs_content_id
	ON workflow_runs (content_id, created_at DESC);

CREATE INDEX IF NOT EXISTS idx_workflow_runs_status
	ON workflow_runs (status, updated_at);
`

type checkpointRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewCheckpointRepository creates a Postgres-backed checkpoint repository.
func NewCheckpointRepository(db *pgxpool.Pool, logger *slog.Logger) CheckpointRepository {
	return &checkpointRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureCheckpointSchema creates the workflow_runs table if it does not exist.
func EnsureCheckpointSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, checkpointSchema); err != nil {
		return fmt.Errorf("failed to ensure checkpoint schema: %w", err)
	}
	return nil
}

func (r *checkpointRepository) CreateRun(ctx context.Context, run *domain.WorkflowRun) error {
	if run == nil {
		return fmt.Errorf("run cannot be nil")
	}

	stateJSON, err := json.Marshal(run.State)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow state: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO workflow_runs (run_id, content_id, content_type, slug, status, step, state, attempts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.RunID, run.Ref.ContentID, string(run.Ref.ContentType), run.Ref.Slug,
		string(run.Status), run.Step, stateJSON, run.Attempts)
	if err != nil {
		return fmt.Errorf("failed to create workflow run: %w", err)
	}

	r.logger.InfoContext(ctx, "workflow run created",
		"run_id", run.RunID,
		"content_id", run.Ref.ContentID)

	return nil
}

func (r *checkpointRepository) SaveState(ctx context.Context, runID uuid.UUID, step string, state domain.WorkflowState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow state: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE workflow_runs
		SET step = $2, state = $3, updated_at = now()
		WHERE run_id = $1`,
		runID, step, stateJSON)
	if err != nil {
		return fmt.Errorf("failed to save workflow state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}

	return nil
}

func (r *checkpointRepository) MarkCompleted(ctx context.Context, runID uuid.UUID, summaryID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE workflow_runs
		SET status = 'completed', step = 'done', summary_id = $2, error_message = NULL, updated_at = now()
		WHERE run_id = $1`,
		runID, summaryID)
	if err != nil {
		return fmt.Errorf("failed to mark run completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}

	return nil
}

func (r *checkpointRepository) MarkFailed(ctx context.Context, runID uuid.UUID, step, message string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE workflow_runs
		SET status = 'failed', step = $2, error_message = $3, updated_at = now()
		WHERE run_id = $1`,
		runID, step, message)
	if err != nil {
		return fmt.Errorf("failed to mark run failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}

	return nil
}

// MarkAbandoned ends a run permanently. The claim query filters on
// status = 'failed', so abandoned rows are invisible to the resume job.
func (r *checkpointRepository) MarkAbandoned(ctx context.Context, runID uuid.UUID, step, message string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE workflow_runs
		SET status = 'abandoned', step = $2, error_message = $3, updated_at = now()
		WHERE run_id = $1`,
		runID, step, message)
	if err != nil {
		return fmt.Errorf("failed to mark run abandoned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}

	return nil
}

// ClaimResumable flips resumable runs back to running and bumps their
// attempt counter in the same statement, so concurrent resume workers never
// pick up the same run twice.
func (r *checkpointRepository) ClaimResumable(ctx context.Context, staleAfter time.Duration, maxAttempts, limit int) ([]*domain.WorkflowRun, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE workflow_runs
		SET status = 'running', attempts = attempts + 1, updated_at = now()
		WHERE run_id IN (
			SELECT run_id FROM workflow_runs
			WHERE (status = 'failed' AND attempts < $1)
			   OR (status = 'running' AND updated_at < now() - $2::interval)
			ORDER BY updated_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING run_id, content_id, content_type, slug, status, step, state,
		          attempts, COALESCE(summary_id, ''), COALESCE(error_message, ''),
		          created_at, updated_at`,
		maxAttempts, fmt.Sprintf("%d seconds", int(staleAfter.Seconds())), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim resumable runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.WorkflowRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read resumable runs: %w", err)
	}

	return runs, nil
}

func (r *checkpointRepository) FindLatestByContentID(ctx context.Context, contentID string) (*domain.WorkflowRun, error) {
	rows, err := r.db.Query(ctx, `
		SELECT run_id, content_id, content_type, slug, status, step, state,
		       attempts, COALESCE(summary_id, ''), COALESCE(error_message, ''),
		       created_at, updated_at
		FROM workflow_runs
		WHERE content_id = $1
		ORDER BY created_at DESC
		LIMIT 1`,
		contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find workflow run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read workflow run: %w", err)
		}
		return nil, domain.ErrRunNotFound
	}

	return scanRun(rows)
}

func scanRun(row pgx.Row) (*domain.WorkflowRun, error) {
	var (
		run       domain.WorkflowRun
		status    string
		ctype     string
		stateJSON []byte
	)

	err := row.Scan(&run.RunID, &run.Ref.ContentID, &ctype, &run.Ref.Slug,
		&status, &run.Step, &stateJSON, &run.Attempts, &run.SummaryID,
		&run.ErrorMessage, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to scan workflow run: %w", err)
	}

	run.Status = domain.RunStatus(status)
	run.Ref.ContentType = domain.ContentType(ctype)

	if err := json.Unmarshal(stateJSON, &run.State); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow state: %w", err)
	}

	return &run, nil
}

// NewCheckpointPool opens a pgx pool for the checkpoint database.
func NewCheckpointPool(ctx context.Context, url string, maxConns int32) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	poolCfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
