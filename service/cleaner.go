package service

import (
	"context"
	"fmt"
	"log/slog"

	"summary-pipeline/domain"
	"summary-pipeline/utils/textutil"
)

type cleanerService struct {
	logger *slog.Logger
}

// NewCleanerService creates a new content cleaner service.
func NewCleanerService(logger *slog.Logger) CleanerService {
	return &cleanerService{logger: logger}
}

// Clean flattens the rich body into plain text and projects the metadata the
// summarizer needs. Pure in-memory transform: no network or storage side
// effects, deterministic for the same input, safe to re-run.
func (s *cleanerService) Clean(ctx context.Context, raw *domain.RawContent) (*domain.CleanedContent, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrMalformedContent)
	}

	// An absent body is common and acceptable; it degrades to an empty
	// string rather than failing the run.
	body := flattenBody(raw.Body)

	cleaned := &domain.CleanedContent{
		Title:    textutil.CollapseSpaces(raw.Title),
		Dek:      textutil.CollapseSpaces(raw.Dek),
		Body:     body,
		Metadata: extractMetadata(raw),
	}

	if raw.Type == domain.ContentTypeInterview && raw.Interviewee != nil {
		cleaned.Interviewee = projectInterviewee(raw)
	}

	s.logger.InfoContext(ctx, "content cleaned",
		"content_id", raw.ID,
		"body_length", len(body),
		"has_interviewee", cleaned.Interviewee != nil)

	return cleaned, nil
}

// flattenBody walks the block list, concatenates the inline span text of
// each text block and joins blocks with a single blank line. Whitespace runs
// collapse to single instances.
func flattenBody(blocks []domain.Block) string {
	var paragraphs []string
	for _, block := range blocks {
		if block.Type != "block" {
			continue
		}

		var text string
		for _, span := range block.Children {
			text += textutil.StripMarkup(span.Text)
		}

		if text = textutil.CollapseSpaces(text); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	return textutil.NormalizeBlocks(paragraphs)
}

// projectInterviewee reduces the interviewee record, preferring the at-time
// role and organization: the interview reflects the person's position when
// it took place, not their current one.
func projectInterviewee(raw *domain.RawContent) *domain.Interviewee {
	iv := domain.Interviewee{
		Name:         raw.Interviewee.Name,
		Role:         raw.Interviewee.Role,
		Organization: raw.Interviewee.Organization,
		Bio:          raw.Interviewee.Bio,
	}

	if raw.RoleAtTime != "" {
		iv.Role = raw.RoleAtTime
	}
	if raw.OrganizationAtTime != "" {
		iv.Organization = raw.OrganizationAtTime
	}

	return &iv
}
