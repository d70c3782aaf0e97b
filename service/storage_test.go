// ABOUTME: This file tests the summary storage service
// ABOUTME: Covers idempotent upsert, validation before write and link failures
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summary-pipeline/domain"
)

type fakeSummaryRepository struct {
	docs        map[string]*domain.SummaryDocument
	links       map[string]string
	upsertCalls int
	linkCalls   int
	upsertErr   error
	linkErr     error
}

func newFakeSummaryRepository() *fakeSummaryRepository {
	return &fakeSummaryRepository{
		docs:  make(map[string]*domain.SummaryDocument),
		links: make(map[string]string),
	}
}

func (f *fakeSummaryRepository) Upsert(_ context.Context, doc *domain.SummaryDocument) error {
	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *fakeSummaryRepository) LinkToContent(_ context.Context, contentID, summaryID string, _ time.Time) error {
	f.linkCalls++
	if f.linkErr != nil {
		return f.linkErr
	}
	f.links[contentID] = summaryID
	return nil
}

func (f *fakeSummaryRepository) FindByContentID(_ context.Context, contentID string) (*domain.SummaryDocument, error) {
	doc, ok := f.docs[domain.SummaryDocumentID(contentID)]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	return doc, nil
}

func validStoreSummary() *domain.Summary {
	return &domain.Summary{
		ShortSummary:  "Short.",
		MediumSummary: "A somewhat longer medium summary of the content.",
		KeyPoints:     []string{"Point one"},
		Tags:          []string{"Energy"},
	}
}

func articleRef() domain.ContentReference {
	return domain.ContentReference{
		ContentID:   "art-123",
		ContentType: domain.ContentTypeArticle,
		Slug:        "oil-price-2024",
	}
}

func TestStorageService_Store(t *testing.T) {
	t.Run("should store summary under deterministic id and link source", func(t *testing.T) {
		repo := newFakeSummaryRepository()
		storage := NewStorageService(repo, testLogger())

		result, err := storage.Store(context.Background(), articleRef(), validStoreSummary())

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "ai-summary-art-123", result.SummaryID)

		stored, ok := repo.docs["ai-summary-art-123"]
		require.True(t, ok)
		assert.Equal(t, domain.SummaryDocumentType, stored.DocType)
		assert.Equal(t, "art-123", stored.ContentID)
		assert.Equal(t, "completed", stored.Status)
		assert.Equal(t, "ai-summary-art-123", repo.links["art-123"])
	})

	t.Run("should replace rather than duplicate on repeated store", func(t *testing.T) {
		repo := newFakeSummaryRepository()
		storage := NewStorageService(repo, testLogger())
		ref := articleRef()

		first := validStoreSummary()
		_, err := storage.Store(context.Background(), ref, first)
		require.NoError(t, err)

		second := validStoreSummary()
		second.ShortSummary = "Revised short summary."
		_, err = storage.Store(context.Background(), ref, second)
		require.NoError(t, err)

		assert.Len(t, repo.docs, 1, "a content item has exactly one summary document")
		assert.Equal(t, "Revised short summary.", repo.docs["ai-summary-art-123"].ShortSummary)
		assert.Equal(t, 2, repo.upsertCalls)
	})

	t.Run("should reject malformed summary before any write", func(t *testing.T) {
		repo := newFakeSummaryRepository()
		storage := NewStorageService(repo, testLogger())

		_, err := storage.Store(context.Background(), articleRef(), &domain.Summary{})

		assert.ErrorIs(t, err, domain.ErrInvalidSummary)
		assert.Zero(t, repo.upsertCalls, "nothing may be written for an invalid summary")
		assert.Zero(t, repo.linkCalls)
	})

	t.Run("should reject invalid reference before any write", func(t *testing.T) {
		repo := newFakeSummaryRepository()
		storage := NewStorageService(repo, testLogger())

		_, err := storage.Store(context.Background(), domain.ContentReference{}, validStoreSummary())

		require.Error(t, err)
		assert.Zero(t, repo.upsertCalls)
	})

	t.Run("should report failure without summary id when upsert fails", func(t *testing.T) {
		repo := newFakeSummaryRepository()
		repo.upsertErr = errors.New("store unavailable")
		storage := NewStorageService(repo, testLogger())

		result, err := storage.Store(context.Background(), articleRef(), validStoreSummary())

		require.Error(t, err)
		require.NotNil(t, result)
		assert.False(t, result.Success)
		assert.Empty(t, result.SummaryID)
		assert.Zero(t, repo.linkCalls, "link must not run after a failed upsert")
	})

	t.Run("should keep summary id when only the backlink fails", func(t *testing.T) {
		repo := newFakeSummaryRepository()
		repo.linkErr = errors.New("patch rejected")
		storage := NewStorageService(repo, testLogger())

		result, err := storage.Store(context.Background(), articleRef(), validStoreSummary())

		require.Error(t, err)
		require.NotNil(t, result)
		assert.False(t, result.Success)
		assert.Equal(t, "ai-summary-art-123", result.SummaryID,
			"summary exists even though the source document is not linked")
		assert.Contains(t, repo.docs, "ai-summary-art-123")
	})
}
