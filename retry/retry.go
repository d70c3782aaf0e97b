// ABOUTME: This file implements exponential backoff retry mechanism with jitter
// ABOUTME: Provides resilient error handling for external service calls
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

type Config struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterFactor  float64
}

// ErrorClassifier reports whether an error is worth retrying.
type ErrorClassifier func(error) bool

type Retrier struct {
	config      Config
	isRetryable ErrorClassifier
	logger      *slog.Logger
}

func NewRetrier(config Config, classifier ErrorClassifier, logger *slog.Logger) *Retrier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrier{
		config:      config,
		isRetryable: classifier,
		logger:      logger,
	}
}

// Do runs the operation until it succeeds, exhausts the attempt budget, or
// hits a non-retryable error. Waits are cancellable through the context.
func (r *Retrier) Do(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				r.logger.InfoContext(ctx, "operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		retryable := r.isRetryable != nil && r.isRetryable(lastErr)

		if attempt == r.config.MaxAttempts || !retryable {
			r.logger.ErrorContext(ctx, "operation failed permanently",
				"attempt", attempt,
				"error", lastErr,
				"retryable", retryable)
			break
		}

		delay := r.calculateDelay(attempt)
		r.logger.WarnContext(ctx, "operation attempt failed, backing off",
			"attempt", attempt,
			"error", lastErr,
			"retry_delay", delay)

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("operation failed after %d attempt(s): %w", r.config.MaxAttempts, lastErr)
}

func (r *Retrier) calculateDelay(attempt int) time.Duration {
	delay := float64(r.config.BaseDelay) * math.Pow(r.config.BackoffFactor, float64(attempt-1))

	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}

	// Jitter to avoid thundering-herd retries
	jitter := 1.0 + (rand.Float64()-0.5)*r.config.JitterFactor
	delay *= jitter

	return time.Duration(delay)
}
