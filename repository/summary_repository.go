package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"summary-pipeline/domain"
	"summary-pipeline/driver"
)

const summaryByContentIDQuery = `*[_type == "aiSummary" && _id == $id][0]`

type summaryRepository struct {
	store  *driver.ContentStoreClient
	logger *slog.Logger
}

// NewSummaryRepository creates a summary repository over the store client.
func NewSummaryRepository(store *driver.ContentStoreClient, logger *slog.Logger) SummaryRepository {
	return &summaryRepository{
		store:  store,
		logger: logger,
	}
}

// Upsert creates or replaces the summary document. The id is derived from
// the content id, so re-running the pipeline overwrites in place instead of
// accumulating duplicates.
func (r *summaryRepository) Upsert(ctx context.Context, doc *domain.SummaryDocument) error {
	if doc == nil {
		return fmt.Errorf("summary document cannot be nil")
	}
	if doc.ID == "" || doc.ContentID == "" {
		return fmt.Errorf("summary document id and content id cannot be empty")
	}

	r.logger.InfoContext(ctx, "upserting summary document",
		"summary_id", doc.ID,
		"content_id", doc.ContentID)

	if err := r.store.CreateOrReplace(ctx, doc); err != nil {
		return fmt.Errorf("failed to upsert summary document: %w", err)
	}

	return nil
}

// LinkToContent patches the source content document with the back-reference.
// Not transactional with Upsert: a failure here leaves a valid summary with
// an unflagged source document, healed by the next run.
func (r *summaryRepository) LinkToContent(ctx context.Context, contentID, summaryID string, linkedAt time.Time) error {
	if contentID == "" || summaryID == "" {
		return fmt.Errorf("content id and summary id cannot be empty")
	}

	fields := map[string]any{
		"hasAISummary":     true,
		"summaryUpdatedAt": linkedAt.UTC().Format(time.RFC3339),
		"aiSummary": map[string]any{
			"_type": "reference",
			"_ref":  summaryID,
		},
	}

	if err := r.store.PatchSet(ctx, contentID, fields); err != nil {
		return fmt.Errorf("failed to link summary to content %s: %w", contentID, err)
	}

	r.logger.InfoContext(ctx, "summary linked to content",
		"content_id", contentID,
		"summary_id", summaryID)

	return nil
}

// FindByContentID returns the stored summary for a content item. Absence
// means "not yet generated" and surfaces as domain.ErrContentNotFound.
func (r *summaryRepository) FindByContentID(ctx context.Context, contentID string) (*domain.SummaryDocument, error) {
	if contentID == "" {
		return nil, domain.ErrMissingContentID
	}

	var doc domain.SummaryDocument
	if err := r.store.Query(ctx, summaryByContentIDQuery, map[string]string{"id": domain.SummaryDocumentID(contentID)}, &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}
