package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"summary-pipeline/config"
	"summary-pipeline/domain"
	"summary-pipeline/repository"
	"summary-pipeline/retry"
)

type summarizerService struct {
	summarizerRepo repository.SummarizerRepository
	retrier        *retry.Retrier
	logger         *slog.Logger
}

// NewSummarizerService creates a summarizer service with bounded retries for
// schema violations and transient API failures.
func NewSummarizerService(summarizerRepo repository.SummarizerRepository, cfg config.SummarizerConfig, retryCfg config.RetryConfig, logger *slog.Logger) SummarizerService {
	retrier := retry.NewRetrier(retry.Config{
		MaxAttempts:   cfg.MaxSchemaRetries,
		BaseDelay:     retryCfg.BaseDelay,
		MaxDelay:      retryCfg.MaxDelay,
		BackoffFactor: retryCfg.BackoffFactor,
		JitterFactor:  retryCfg.JitterFactor,
	}, isRetryableSummarizerError, logger)

	return &summarizerService{
		summarizerRepo: summarizerRepo,
		retrier:        retrier,
		logger:         logger,
	}
}

// Summarize produces a summary strictly matching the output contract. Model
// output that fails the schema is retried up to the configured attempt cap;
// a malformed summary never leaves this service.
func (s *summarizerService) Summarize(ctx context.Context, cleaned *domain.CleanedContent) (*domain.Summary, error) {
	if cleaned == nil {
		return nil, fmt.Errorf("%w: nil cleaned content", domain.ErrMalformedContent)
	}

	var summary *domain.Summary

	err := s.retrier.Do(ctx, func() error {
		result, err := s.summarizerRepo.Summarize(ctx, cleaned)
		if err != nil {
			return err
		}
		summary = result
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary for %s: %w", cleaned.Metadata.ID, err)
	}

	// The repository validates already; re-check so the contract holds no
	// matter which implementation is behind the interface.
	if err := summary.Validate(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "summary generated",
		"content_id", cleaned.Metadata.ID,
		"key_points", len(summary.KeyPoints),
		"tags", len(summary.Tags))

	return summary, nil
}

func isRetryableSummarizerError(err error) bool {
	return errors.Is(err, domain.ErrInvalidSummary) || errors.Is(err, domain.ErrSummarizerUnavailable)
}
