// ABOUTME: This file tests the content fetcher service
// ABOUTME: Covers content-type dispatch, metadata extraction and error propagation
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summary-pipeline/domain"
)

type fakeContentRepository struct {
	articles     map[string]*domain.RawContent
	interviews   map[string]*domain.RawContent
	publications map[string]*domain.RawContent
	calls        []string
}

func newFakeContentRepository() *fakeContentRepository {
	return &fakeContentRepository{
		articles:     make(map[string]*domain.RawContent),
		interviews:   make(map[string]*domain.RawContent),
		publications: make(map[string]*domain.RawContent),
	}
}

func (f *fakeContentRepository) find(kind string, docs map[string]*domain.RawContent, slug string) (*domain.RawContent, error) {
	f.calls = append(f.calls, kind)
	doc, ok := docs[slug]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	return doc, nil
}

func (f *fakeContentRepository) FindArticleBySlug(_ context.Context, slug string) (*domain.RawContent, error) {
	return f.find("article", f.articles, slug)
}

func (f *fakeContentRepository) FindInterviewBySlug(_ context.Context, slug string) (*domain.RawContent, error) {
	return f.find("interview", f.interviews, slug)
}

func (f *fakeContentRepository) FindPublicationBySlug(_ context.Context, slug string) (*domain.RawContent, error) {
	return f.find("publication", f.publications, slug)
}

func TestFetcherService_Fetch(t *testing.T) {
	t.Run("should dispatch to the query matching the content type", func(t *testing.T) {
		tests := map[string]struct {
			contentType domain.ContentType
			wantCall    string
		}{
			"article":     {contentType: domain.ContentTypeArticle, wantCall: "article"},
			"interview":   {contentType: domain.ContentTypeInterview, wantCall: "interview"},
			"publication": {contentType: domain.ContentTypePublication, wantCall: "publication"},
		}

		for name, tc := range tests {
			t.Run(name, func(t *testing.T) {
				repo := newFakeContentRepository()
				doc := &domain.RawContent{ID: "doc-1", Type: tc.contentType, Title: "T", Slug: "s"}
				repo.articles["s"] = doc
				repo.interviews["s"] = doc
				repo.publications["s"] = doc

				fetcher := NewFetcherService(repo, testLogger())

				raw, _, err := fetcher.Fetch(context.Background(), tc.contentType, "s")

				require.NoError(t, err)
				assert.Equal(t, doc, raw)
				assert.Equal(t, []string{tc.wantCall}, repo.calls)
			})
		}
	})

	t.Run("should reject unsupported content type without querying", func(t *testing.T) {
		repo := newFakeContentRepository()
		fetcher := NewFetcherService(repo, testLogger())

		_, _, err := fetcher.Fetch(context.Background(), "podcast", "some-slug")

		assert.ErrorIs(t, err, domain.ErrUnsupportedContentType)
		assert.Empty(t, repo.calls)
	})

	t.Run("should reject empty slug without querying", func(t *testing.T) {
		repo := newFakeContentRepository()
		fetcher := NewFetcherService(repo, testLogger())

		_, _, err := fetcher.Fetch(context.Background(), domain.ContentTypeArticle, "")

		assert.ErrorIs(t, err, domain.ErrMissingSlug)
		assert.Empty(t, repo.calls)
	})

	t.Run("should propagate not found from the repository", func(t *testing.T) {
		repo := newFakeContentRepository()
		fetcher := NewFetcherService(repo, testLogger())

		_, _, err := fetcher.Fetch(context.Background(), domain.ContentTypeArticle, "missing")

		assert.ErrorIs(t, err, domain.ErrContentNotFound)
	})

	t.Run("should extract metadata with flattened taxonomies", func(t *testing.T) {
		repo := newFakeContentRepository()
		repo.articles["lng-outlook"] = &domain.RawContent{
			ID:          "art-1",
			Type:        domain.ContentTypeArticle,
			Title:       "LNG Outlook",
			Slug:        "lng-outlook",
			PublishedAt: "2026-06-15",
			Sectors:     []domain.TaxonomyRef{{ID: "s1", Title: "Gas"}},
			Tags:        []domain.TaxonomyRef{{ID: "t1", Title: "LNG"}, {ID: "t2", Title: ""}},
		}
		fetcher := NewFetcherService(repo, testLogger())

		_, meta, err := fetcher.Fetch(context.Background(), domain.ContentTypeArticle, "lng-outlook")

		require.NoError(t, err)
		require.NotNil(t, meta)
		assert.Equal(t, "art-1", meta.ID)
		assert.Equal(t, "LNG Outlook", meta.Title)
		assert.Equal(t, "2026-06-15", meta.PublishedAt)
		assert.Equal(t, []string{"Gas"}, meta.Sectors)
		// Refs without a resolved title are dropped rather than kept empty.
		assert.Equal(t, []string{"LNG"}, meta.Tags)
	})
}
