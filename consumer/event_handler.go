package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"summary-pipeline/domain"
)

// EventType constants.
const (
	EventTypeContentPublished   = "ContentPublished"
	EventTypeSummarizeRequested = "SummarizeRequested"
)

// ContentEventPayload is the trigger payload shared by both event types.
type ContentEventPayload struct {
	ContentID   string `json:"content_id"`
	ContentType string `json:"content_type"`
	Slug        string `json:"slug"`
}

// WorkflowService starts a summarization workflow for a content reference.
type WorkflowService interface {
	Run(ctx context.Context, ref domain.ContentReference) (*domain.StoreResult, error)
}

// PipelineEventHandler routes trigger events into the workflow.
type PipelineEventHandler struct {
	workflow WorkflowService
	logger   *slog.Logger
}

// NewPipelineEventHandler creates a new PipelineEventHandler.
func NewPipelineEventHandler(workflow WorkflowService, logger *slog.Logger) *PipelineEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineEventHandler{
		workflow: workflow,
		logger:   logger,
	}
}

// HandleEvent processes a single event based on its type. Unknown event
// types are acknowledged and ignored.
func (h *PipelineEventHandler) HandleEvent(ctx context.Context, event Event) error {
	h.logger.Info("handling event",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"message_id", event.MessageID,
	)

	switch event.EventType {
	case EventTypeContentPublished, EventTypeSummarizeRequested:
		return h.handleSummarize(ctx, event)
	default:
		h.logger.Debug("ignoring unknown event type", "event_type", event.EventType)
		return nil
	}
}

func (h *PipelineEventHandler) handleSummarize(ctx context.Context, event Event) error {
	var payload ContentEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		// Undecodable payloads never become decodable; drop instead of
		// leaving the message unacked for endless redelivery.
		h.logger.Error("failed to unmarshal event payload, dropping",
			"event_id", event.EventID,
			"error", err,
		)
		return nil
	}

	ref := domain.ContentReference{
		ContentID:   payload.ContentID,
		ContentType: domain.ContentType(payload.ContentType),
		Slug:        payload.Slug,
	}

	if err := ref.Validate(); err != nil {
		// A malformed payload never becomes valid; drop it instead of
		// having the stream redeliver it forever.
		h.logger.Error("invalid event payload, dropping",
			"event_id", event.EventID,
			"content_id", payload.ContentID,
			"error", err,
		)
		return nil
	}

	h.logger.Info("starting summarization workflow",
		"content_id", ref.ContentID,
		"content_type", ref.ContentType,
		"slug", ref.Slug,
	)

	if _, err := h.workflow.Run(ctx, ref); err != nil {
		h.logger.Error("summarization workflow failed",
			"content_id", ref.ContentID,
			"error", err,
		)
		return err
	}

	return nil
}
