package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"summary-pipeline/domain"
	"summary-pipeline/repository"
)

// SummaryHandler serves stored summaries to downstream consumers.
type SummaryHandler struct {
	summaryRepo repository.SummaryRepository
	logger      *slog.Logger
}

// NewSummaryHandler creates a new summary lookup handler.
func NewSummaryHandler(summaryRepo repository.SummaryRepository, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{
		summaryRepo: summaryRepo,
		logger:      logger,
	}
}

// HandleGetSummary handles GET /api/v1/summaries/:contentId. A missing
// summary means "not yet generated", not an error condition.
func (h *SummaryHandler) HandleGetSummary(c echo.Context) error {
	ctx := c.Request().Context()

	contentID := c.Param("contentId")
	if contentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Content ID cannot be empty")
	}

	doc, err := h.summaryRepo.FindByContentID(ctx, contentID)
	if err != nil {
		if errors.Is(err, domain.ErrContentNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"status": "not_generated",
			})
		}

		h.logger.Error("failed to fetch summary",
			"content_id", contentID,
			"error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch summary")
	}

	return c.JSON(http.StatusOK, doc)
}
