package repository

import (
	"context"

	"summary-pipeline/domain"
	"summary-pipeline/driver"
)

type summarizerRepository struct {
	client *driver.SummarizerClient
}

// NewSummarizerRepository creates a summarizer repository over the API client.
func NewSummarizerRepository(client *driver.SummarizerClient) SummarizerRepository {
	return &summarizerRepository{client: client}
}

func (r *summarizerRepository) Summarize(ctx context.Context, cleaned *domain.CleanedContent) (*domain.Summary, error) {
	return r.client.Summarize(ctx, cleaned)
}
