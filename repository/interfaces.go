// Package repository defines the data access interfaces for the pipeline
// and their implementations over the content store, the summarizer API and
// the checkpoint database.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"summary-pipeline/domain"
)

// ContentRepository reads content documents from the content store.
// One query per content kind, each with taxonomy references expanded.
type ContentRepository interface {
	FindArticleBySlug(ctx context.Context, slug string) (*domain.RawContent, error)
	FindInterviewBySlug(ctx context.Context, slug string) (*domain.RawContent, error)
	FindPublicationBySlug(ctx context.Context, slug string) (*domain.RawContent, error)
}

// SummaryRepository persists summaries into the content store and links
// them back onto the source documents.
type SummaryRepository interface {
	// Upsert creates or replaces the summary document under its
	// deterministic id.
	Upsert(ctx context.Context, doc *domain.SummaryDocument) error
	// LinkToContent patches the source document with the summary reference,
	// the hasAISummary flag and the update timestamp.
	LinkToContent(ctx context.Context, contentID, summaryID string, linkedAt time.Time) error
	// FindByContentID returns the stored summary for a content item, or
	// domain.ErrContentNotFound when none has been generated yet.
	FindByContentID(ctx context.Context, contentID string) (*domain.SummaryDocument, error)
}

// SummarizerRepository produces a structured summary for cleaned content.
type SummarizerRepository interface {
	Summarize(ctx context.Context, cleaned *domain.CleanedContent) (*domain.Summary, error)
}

// CheckpointRepository stores workflow run checkpoints so interrupted runs
// can resume from their last completed step.
type CheckpointRepository interface {
	CreateRun(ctx context.Context, run *domain.WorkflowRun) error
	SaveState(ctx context.Context, runID uuid.UUID, step string, state domain.WorkflowState) error
	MarkCompleted(ctx context.Context, runID uuid.UUID, summaryID string) error
	MarkFailed(ctx context.Context, runID uuid.UUID, step, message string) error
	// MarkAbandoned records a failure that retrying cannot fix; abandoned
	// runs are terminal and never claimed by the resume job.
	MarkAbandoned(ctx context.Context, runID uuid.UUID, step, message string) error
	// ClaimResumable atomically claims failed runs below the attempt cap and
	// running runs that have gone stale, flipping them back to running with
	// the attempt counter bumped.
	ClaimResumable(ctx context.Context, staleAfter time.Duration, maxAttempts, limit int) ([]*domain.WorkflowRun, error)
	FindLatestByContentID(ctx context.Context, contentID string) (*domain.WorkflowRun, error)
}
