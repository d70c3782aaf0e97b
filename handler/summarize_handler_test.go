// ABOUTME: This file tests the HTTP trigger and summary lookup handlers
// ABOUTME: Covers request validation, error-to-status mapping and response shapes
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"summary-pipeline/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

type fakeWorkflow struct {
	refs   []domain.ContentReference
	runErr error
}

func (f *fakeWorkflow) Run(_ context.Context, ref domain.ContentReference) (*domain.StoreResult, error) {
	f.refs = append(f.refs, ref)
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &domain.StoreResult{
		Success:   true,
		SummaryID: domain.SummaryDocumentID(ref.ContentID),
	}, nil
}

func postSummarize(t *testing.T, h *SummarizeHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summaries", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleSummarize(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestSummarizeHandler_HandleSummarize(t *testing.T) {
	validBody := `{"content_id": "art-123", "content_type": "article", "slug": "oil-price-2024"}`

	t.Run("should run workflow and return the summary id", func(t *testing.T) {
		workflow := &fakeWorkflow{}
		h := NewSummarizeHandler(workflow, testLogger())

		rec := postSummarize(t, h, validBody)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp SummarizeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "ai-summary-art-123", resp.SummaryID)

		require.Len(t, workflow.refs, 1)
		assert.Equal(t, domain.ContentTypeArticle, workflow.refs[0].ContentType)
	})

	t.Run("should reject invalid JSON", func(t *testing.T) {
		workflow := &fakeWorkflow{}
		h := NewSummarizeHandler(workflow, testLogger())

		rec := postSummarize(t, h, `{not json`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, workflow.refs)
	})

	t.Run("should reject incomplete references", func(t *testing.T) {
		tests := map[string]string{
			"missing content id": `{"content_type": "article", "slug": "s"}`,
			"missing slug":       `{"content_id": "art-1", "content_type": "article"}`,
			"unknown type":       `{"content_id": "art-1", "content_type": "podcast", "slug": "s"}`,
		}

		for name, body := range tests {
			t.Run(name, func(t *testing.T) {
				workflow := &fakeWorkflow{}
				h := NewSummarizeHandler(workflow, testLogger())

				rec := postSummarize(t, h, body)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Empty(t, workflow.refs)
			})
		}
	})

	t.Run("should map missing content to 404", func(t *testing.T) {
		workflow := &fakeWorkflow{runErr: domain.ErrContentNotFound}
		h := NewSummarizeHandler(workflow, testLogger())

		rec := postSummarize(t, h, validBody)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should map summarizer outage to 502", func(t *testing.T) {
		workflow := &fakeWorkflow{runErr: domain.ErrSummarizerUnavailable}
		h := NewSummarizeHandler(workflow, testLogger())

		rec := postSummarize(t, h, validBody)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("should map other failures to 500", func(t *testing.T) {
		workflow := &fakeWorkflow{runErr: assert.AnError}
		h := NewSummarizeHandler(workflow, testLogger())

		rec := postSummarize(t, h, validBody)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

type fakeSummaryRepo struct {
	docs map[string]*domain.SummaryDocument
	err  error
}

func (f *fakeSummaryRepo) Upsert(_ context.Context, doc *domain.SummaryDocument) error {
	return nil
}

func (f *fakeSummaryRepo) LinkToContent(_ context.Context, _, _ string, _ time.Time) error {
	return nil
}

func (f *fakeSummaryRepo) FindByContentID(_ context.Context, contentID string) (*domain.SummaryDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[contentID]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	return doc, nil
}

func getSummary(t *testing.T, h *SummaryHandler, contentID string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/summaries/"+contentID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/summaries/:contentId")
	c.SetParamNames("contentId")
	c.SetParamValues(contentID)

	err := h.HandleGetSummary(c)
	if err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestSummaryHandler_HandleGetSummary(t *testing.T) {
	t.Run("should return the stored summary document", func(t *testing.T) {
		repo := &fakeSummaryRepo{docs: map[string]*domain.SummaryDocument{
			"art-123": {
				ID:           "ai-summary-art-123",
				DocType:      domain.SummaryDocumentType,
				ContentID:    "art-123",
				ShortSummary: "Short.",
				Status:       "completed",
			},
		}}
		h := NewSummaryHandler(repo, testLogger())

		rec := getSummary(t, h, "art-123")

		assert.Equal(t, http.StatusOK, rec.Code)

		var doc domain.SummaryDocument
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, "ai-summary-art-123", doc.ID)
		assert.Equal(t, "completed", doc.Status)
	})

	t.Run("should report not generated for unknown content", func(t *testing.T) {
		repo := &fakeSummaryRepo{docs: map[string]*domain.SummaryDocument{}}
		h := NewSummaryHandler(repo, testLogger())

		rec := getSummary(t, h, "art-999")

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "not_generated", resp["status"])
	})

	t.Run("should return 500 on repository failures", func(t *testing.T) {
		repo := &fakeSummaryRepo{err: assert.AnError}
		h := NewSummaryHandler(repo, testLogger())

		rec := getSummary(t, h, "art-123")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	t.Run("should report ok", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
		rec := httptest.NewRecorder()

		h := NewHealthHandler()
		require.NoError(t, h.HandleHealth(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp["status"])
		assert.Equal(t, "summary-pipeline", resp["service"])
	})
}
