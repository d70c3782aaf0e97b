package repository

import (
	"context"
	"fmt"
	"log/slog"

	"summary-pipeline/domain"
	"summary-pipeline/driver"
)

const (
	articleQuery = `*[_type == "article" && slug.current == $slug][0]{
  _id, _type, title, "slug": slug.current, dek, publishedAt, body,
  "sectors": sectors[]->{_id, title},
  "regions": regions[]->{_id, title},
  "tags": tags[]->{_id, title}
}`

	interviewQuery = `*[_type == "interview" && slug.current == $slug][0]{
  _id, _type, title, "slug": slug.current, dek, publishedAt, body,
  interviewee->{name, role, organization, bio},
  roleAtTime, organizationAtTime,
  "sectors": sectors[]->{_id, title},
  "regions": regions[]->{_id, title},
  "tags": tags[]->{_id, title}
}`

	publicationQuery = `*[_type == "publication" && slug.current == $slug][0]{
  _id, _type, title, "slug": slug.current, dek, publishedAt, body,
  "sectors": sectors[]->{_id, title},
  "regions": regions[]->{_id, title},
  "tags": tags[]->{_id, title}
}`
)

type contentRepository struct {
	store  *driver.ContentStoreClient
	logger *slog.Logger
}

// NewContentRepository creates a content repository over the store client.
func NewContentRepository(store *driver.ContentStoreClient, logger *slog.Logger) ContentRepository {
	return &contentRepository{
		store:  store,
		logger: logger,
	}
}

func (r *contentRepository) FindArticleBySlug(ctx context.Context, slug string) (*domain.RawContent, error) {
	return r.findBySlug(ctx, articleQuery, slug)
}

func (r *contentRepository) FindInterviewBySlug(ctx context.Context, slug string) (*domain.RawContent, error) {
	return r.findBySlug(ctx, interviewQuery, slug)
}

func (r *contentRepository) FindPublicationBySlug(ctx context.Context, slug string) (*domain.RawContent, error) {
	return r.findBySlug(ctx, publicationQuery, slug)
}

func (r *contentRepository) findBySlug(ctx context.Context, query, slug string) (*domain.RawContent, error) {
	if slug == "" {
		return nil, domain.ErrMissingSlug
	}

	var raw domain.RawContent
	if err := r.store.Query(ctx, query, map[string]string{"slug": slug}, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch content for slug %q: %w", slug, err)
	}

	r.logger.InfoContext(ctx, "content fetched",
		"content_id", raw.ID,
		"content_type", raw.Type,
		"slug", slug)

	return &raw, nil
}
