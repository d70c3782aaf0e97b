// Package handler exposes the pipeline over HTTP: a trigger endpoint, the
// downstream summary lookup and a health probe.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"summary-pipeline/consumer"
	"summary-pipeline/domain"
)

// SummarizeRequest is the trigger payload for POST /api/v1/summaries.
type SummarizeRequest struct {
	ContentID   string `json:"content_id"`
	ContentType string `json:"content_type"`
	Slug        string `json:"slug"`
}

// SummarizeResponse is the trigger response.
type SummarizeResponse struct {
	Success   bool   `json:"success"`
	SummaryID string `json:"summary_id"`
}

// SummarizeHandler handles on-demand summarization requests.
type SummarizeHandler struct {
	workflow consumer.WorkflowService
	logger   *slog.Logger
}

// NewSummarizeHandler creates a new summarize handler.
func NewSummarizeHandler(workflow consumer.WorkflowService, logger *slog.Logger) *SummarizeHandler {
	return &SummarizeHandler{
		workflow: workflow,
		logger:   logger,
	}
}

// HandleSummarize handles POST /api/v1/summaries requests.
func (h *SummarizeHandler) HandleSummarize(c echo.Context) error {
	ctx := c.Request().Context()

	var req SummarizeRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	ref := domain.ContentReference{
		ContentID:   req.ContentID,
		ContentType: domain.ContentType(req.ContentType),
		Slug:        req.Slug,
	}

	if err := ref.Validate(); err != nil {
		h.logger.Warn("invalid summarize request", "content_id", req.ContentID, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.workflow.Run(ctx, ref)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrContentNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Content not found")
		case errors.Is(err, domain.ErrSummarizerUnavailable):
			return echo.NewHTTPError(http.StatusBadGateway, "Summarizer unavailable")
		default:
			h.logger.Error("summarization workflow failed",
				"content_id", ref.ContentID,
				"error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Summary generation failed")
		}
	}

	return c.JSON(http.StatusOK, SummarizeResponse{
		Success:   result.Success,
		SummaryID: result.SummaryID,
	})
}
