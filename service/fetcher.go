package service

import (
	"context"
	"fmt"
	"log/slog"

	"summary-pipeline/domain"
	"summary-pipeline/repository"
)

type fetcherService struct {
	contentRepo repository.ContentRepository
	logger      *slog.Logger
}

// NewFetcherService creates a new content fetcher service.
func NewFetcherService(contentRepo repository.ContentRepository, logger *slog.Logger) FetcherService {
	return &fetcherService{
		contentRepo: contentRepo,
		logger:      logger,
	}
}

// Fetch retrieves the content document for the given kind and slug and
// extracts its metadata alongside, so later stages can tag and filter
// without re-fetching. Read-only; a missing document is not retried here.
func (s *fetcherService) Fetch(ctx context.Context, contentType domain.ContentType, slug string) (*domain.RawContent, *domain.ContentMetadata, error) {
	if slug == "" {
		return nil, nil, domain.ErrMissingSlug
	}

	var (
		raw *domain.RawContent
		err error
	)

	switch contentType {
	case domain.ContentTypeArticle:
		raw, err = s.contentRepo.FindArticleBySlug(ctx, slug)
	case domain.ContentTypeInterview:
		raw, err = s.contentRepo.FindInterviewBySlug(ctx, slug)
	case domain.ContentTypePublication:
		raw, err = s.contentRepo.FindPublicationBySlug(ctx, slug)
	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedContentType, contentType)
	}

	if err != nil {
		return nil, nil, err
	}

	metadata := extractMetadata(raw)

	s.logger.InfoContext(ctx, "content document fetched",
		"content_id", raw.ID,
		"content_type", contentType,
		"slug", slug,
		"blocks", len(raw.Body))

	return raw, &metadata, nil
}

// extractMetadata flattens taxonomy references to plain title strings.
func extractMetadata(raw *domain.RawContent) domain.ContentMetadata {
	return domain.ContentMetadata{
		Type:        raw.Type,
		ID:          raw.ID,
		Title:       raw.Title,
		Slug:        raw.Slug,
		PublishedAt: raw.PublishedAt,
		Sectors:     taxonomyTitles(raw.Sectors),
		Regions:     taxonomyTitles(raw.Regions),
		Tags:        taxonomyTitles(raw.Tags),
	}
}

func taxonomyTitles(refs []domain.TaxonomyRef) []string {
	if len(refs) == 0 {
		return nil
	}
	titles := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Title != "" {
			titles = append(titles, ref.Title)
		}
	}
	return titles
}
