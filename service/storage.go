package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"summary-pipeline/domain"
	"summary-pipeline/repository"
)

type storageService struct {
	summaryRepo repository.SummaryRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewStorageService creates a new summary storage service.
func NewStorageService(summaryRepo repository.SummaryRepository, logger *slog.Logger) StorageService {
	return &storageService{
		summaryRepo: summaryRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Store validates the summary, upserts the summary document under its
// deterministic id and patches the source document with the back-reference.
// The two writes are not transactional: a failed patch after a successful
// upsert leaves a valid summary and an unflagged source document, which the
// next run heals through the idempotent upsert.
func (s *storageService) Store(ctx context.Context, ref domain.ContentReference, summary *domain.Summary) (*domain.StoreResult, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	// Defense in depth: the summarizer already guarantees the schema, but
	// nothing malformed may reach the store.
	if err := summary.Validate(); err != nil {
		return nil, err
	}

	doc := domain.NewSummaryDocument(ref, *summary, s.now())

	if err := s.summaryRepo.Upsert(ctx, &doc); err != nil {
		return &domain.StoreResult{
			Success: false,
			Message: err.Error(),
		}, fmt.Errorf("failed to store summary for %s: %w", ref.ContentID, err)
	}

	if err := s.summaryRepo.LinkToContent(ctx, ref.ContentID, doc.ID, doc.GeneratedAt); err != nil {
		s.logger.WarnContext(ctx, "summary stored but source document not linked",
			"content_id", ref.ContentID,
			"summary_id", doc.ID,
			"error", err)
		return &domain.StoreResult{
			Success:   false,
			SummaryID: doc.ID,
			Message:   err.Error(),
		}, fmt.Errorf("failed to link summary for %s: %w", ref.ContentID, err)
	}

	s.logger.InfoContext(ctx, "summary stored",
		"content_id", ref.ContentID,
		"summary_id", doc.ID)

	return &domain.StoreResult{
		Success:   true,
		SummaryID: doc.ID,
		Message:   "summary saved",
	}, nil
}
