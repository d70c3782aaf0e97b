// Package service implements the pipeline workers: fetch, clean, summarize
// and store. Each worker is a small service behind an interface so the
// orchestrator and tests can swap implementations.
package service

import (
	"context"

	"summary-pipeline/domain"
)

// FetcherService retrieves a raw content document from the content store.
type FetcherService interface {
	Fetch(ctx context.Context, contentType domain.ContentType, slug string) (*domain.RawContent, *domain.ContentMetadata, error)
}

// CleanerService normalizes raw content into a flat text representation.
type CleanerService interface {
	Clean(ctx context.Context, raw *domain.RawContent) (*domain.CleanedContent, error)
}

// SummarizerService produces a validated structured summary for cleaned
// content, retrying schema violations a bounded number of times.
type SummarizerService interface {
	Summarize(ctx context.Context, cleaned *domain.CleanedContent) (*domain.Summary, error)
}

// StorageService persists a summary and links it back to its source document.
type StorageService interface {
	Store(ctx context.Context, ref domain.ContentReference, summary *domain.Summary) (*domain.StoreResult, error)
}
