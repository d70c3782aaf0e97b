// ABOUTME: This file tests the content cleaner service
// ABOUTME: Covers body flattening, whitespace normalization and interviewee projection
package service

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summary-pipeline/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func textBlock(spans ...string) domain.Block {
	children := make([]domain.Span, 0, len(spans))
	for _, s := range spans {
		children = append(children, domain.Span{Type: "span", Text: s})
	}
	return domain.Block{Type: "block", Style: "normal", Children: children}
}

func TestCleanerService_Clean(t *testing.T) {
	cleaner := NewCleanerService(testLogger())

	t.Run("should flatten text blocks into paragraphs", func(t *testing.T) {
		raw := &domain.RawContent{
			ID:    "art-1",
			Type:  domain.ContentTypeArticle,
			Title: "LNG Outlook",
			Slug:  "lng-outlook",
			Body: []domain.Block{
				textBlock("First ", "paragraph."),
				textBlock("Second paragraph."),
			},
		}

		cleaned, err := cleaner.Clean(context.Background(), raw)

		require.NoError(t, err)
		assert.Equal(t, "First paragraph.\n\nSecond paragraph.", cleaned.Body)
		assert.Equal(t, "LNG Outlook", cleaned.Title)
	})

	t.Run("should skip non-text blocks", func(t *testing.T) {
		raw := &domain.RawContent{
			ID:   "art-2",
			Type: domain.ContentTypeArticle,
			Body: []domain.Block{
				textBlock("Before the image."),
				{Type: "image"},
				{Type: "embed"},
				textBlock("After the image."),
			},
		}

		cleaned, err := cleaner.Clean(context.Background(), raw)

		require.NoError(t, err)
		assert.Equal(t, "Before the image.\n\nAfter the image.", cleaned.Body)
	})

	t.Run("should strip markup from span text", func(t *testing.T) {
		raw := &domain.RawContent{
			ID:   "art-3",
			Type: domain.ContentTypeArticle,
			Body: []domain.Block{
				textBlock("Prices <strong>doubled</strong> in Q2."),
			},
		}

		cleaned, err := cleaner.Clean(context.Background(), raw)

		require.NoError(t, err)
		assert.Equal(t, "Prices doubled in Q2.", cleaned.Body)
		assert.NotContains(t, cleaned.Body, "<")
	})

	t.Run("should collapse whitespace runs everywhere", func(t *testing.T) {
		raw := &domain.RawContent{
			ID:    "art-4",
			Type:  domain.ContentTypeArticle,
			Title: "  Spaced \t out   title ",
			Dek:   "A\n\n\ndek",
			Body: []domain.Block{
				textBlock("Text   with\t\tmessy \n whitespace."),
				textBlock("   "),
				textBlock("Next."),
			},
		}

		cleaned, err := cleaner.Clean(context.Background(), raw)

		require.NoError(t, err)
		assert.Equal(t, "Spaced out title", cleaned.Title)
		assert.Equal(t, "A dek", cleaned.Dek)
		assert.Equal(t, "Text with messy whitespace.\n\nNext.", cleaned.Body)

		// No run of more than one space and no run of more than one blank line
		// may survive cleaning.
		assert.NotRegexp(t, regexp.MustCompile(`[ \t]{2,}`), cleaned.Body)
		assert.NotRegexp(t, regexp.MustCompile(`\n{3,}`), cleaned.Body)
	})

	t.Run("should degrade missing body to empty string", func(t *testing.T) {
		raw := &domain.RawContent{
			ID:    "art-5",
			Type:  domain.ContentTypeArticle,
			Title: "No body yet",
		}

		cleaned, err := cleaner.Clean(context.Background(), raw)

		require.NoError(t, err)
		assert.Equal(t, "", cleaned.Body)
	})

	t.Run("should reject nil document", func(t *testing.T) {
		_, err := cleaner.Clean(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrMalformedContent)
	})

	t.Run("should be deterministic for the same input", func(t *testing.T) {
		raw := &domain.RawContent{
			ID:   "art-6",
			Type: domain.ContentTypeArticle,
			Body: []domain.Block{textBlock("Same   input.")},
		}

		first, err := cleaner.Clean(context.Background(), raw)
		require.NoError(t, err)
		second, err := cleaner.Clean(context.Background(), raw)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestCleanerService_Clean_Interviews(t *testing.T) {
	cleaner := NewCleanerService(testLogger())

	t.Run("should prefer at-time role and organization", func(t *testing.T) {
		raw := &domain.RawContent{
			ID:   "int-1",
			Type: domain.ContentTypeInterview,
			Interviewee: &domain.Interviewee{
				Name:         "Dana Reyes",
				Role:         "CEO",
				Organization: "NewCo",
				Bio:          "Energy executive.",
			},
			RoleAtTime:         "Head of Trading",
			OrganizationAtTime: "OldCo",
		}

		cleaned, err := cleaner.Clean(context.Background(), raw)

		require.NoError(t, err)
		require.NotNil(t, cleaned.Interviewee)
		assert.Equal(t, "Dana Reyes", cleaned.Interviewee.Name)
		assert.Equal(t, "Head of Trading", cleaned.Interviewee.Role)
		assert.Equal(t, "OldCo", cleaned.Interviewee.Organization)
		assert.Equal(t, "Energy executive.", cleaned.Interviewee.Bio)
	})

	t.Run("should fall back to current role when at-time fields absent", func(t *testing.T) {
		raw := &domain.RawContent{
			ID:   "int-2",
			Type: domain.ContentTypeInterview,
			Interviewee: &domain.Interviewee{
				Name:         "Dana Reyes",
				Role:         "CEO",
				Organization: "NewCo",
			},
		}

		cleaned, err := cleaner.Clean(context.Background(), raw)

		require.NoError(t, err)
		require.NotNil(t, cleaned.Interviewee)
		assert.Equal(t, "CEO", cleaned.Interviewee.Role)
		assert.Equal(t, "NewCo", cleaned.Interviewee.Organization)
	})

	t.Run("should leave interviewee unset for non-interview content", func(t *testing.T) {
		raw := &domain.RawContent{
			ID:          "art-7",
			Type:        domain.ContentTypeArticle,
			Interviewee: &domain.Interviewee{Name: "Stray"},
		}

		cleaned, err := cleaner.Clean(context.Background(), raw)

		require.NoError(t, err)
		assert.Nil(t, cleaned.Interviewee)
	})
}

func TestCleanerService_Clean_Metadata(t *testing.T) {
	cleaner := NewCleanerService(testLogger())

	t.Run("should flatten taxonomy references to titles", func(t *testing.T) {
		raw := &domain.RawContent{
			ID:          "art-8",
			Type:        domain.ContentTypeArticle,
			Title:       "Refining Margins",
			Slug:        "refining-margins",
			PublishedAt: "2026-07-01",
			Sectors: []domain.TaxonomyRef{
				{ID: "sec-1", Title: "Downstream"},
				{ID: "sec-2", Title: "Refining"},
			},
			Regions: []domain.TaxonomyRef{{ID: "reg-1", Title: "Asia"}},
		}

		cleaned, err := cleaner.Clean(context.Background(), raw)

		require.NoError(t, err)
		assert.Equal(t, domain.ContentTypeArticle, cleaned.Metadata.Type)
		assert.Equal(t, "art-8", cleaned.Metadata.ID)
		assert.Equal(t, []string{"Downstream", "Refining"}, cleaned.Metadata.Sectors)
		assert.Equal(t, []string{"Asia"}, cleaned.Metadata.Regions)
		assert.Empty(t, cleaned.Metadata.Tags)
	})
}

func TestFlattenBody(t *testing.T) {
	t.Run("should join only non-empty paragraphs", func(t *testing.T) {
		blocks := []domain.Block{
			textBlock("One."),
			textBlock(""),
			textBlock("Two."),
		}

		got := flattenBody(blocks)

		assert.Equal(t, "One.\n\nTwo.", got)
		assert.Equal(t, 2, strings.Count(got, "."))
	})

	t.Run("should return empty string for nil blocks", func(t *testing.T) {
		assert.Equal(t, "", flattenBody(nil))
	})
}
