package config

import (
	"fmt"
	"strings"
)

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.ContentStore.BaseURL == "" {
		return fmt.Errorf("content store base URL cannot be empty")
	}

	if !strings.HasPrefix(config.ContentStore.BaseURL, "http://") && !strings.HasPrefix(config.ContentStore.BaseURL, "https://") {
		return fmt.Errorf("content store base URL must be an http(s) URL: %s", config.ContentStore.BaseURL)
	}

	if config.ContentStore.Dataset == "" {
		return fmt.Errorf("content store dataset cannot be empty")
	}

	if config.ContentStore.Timeout <= 0 {
		return fmt.Errorf("content store timeout must be positive: %v", config.ContentStore.Timeout)
	}

	if config.Summarizer.Host == "" {
		return fmt.Errorf("summarizer host cannot be empty")
	}

	if config.Summarizer.Timeout <= 0 {
		return fmt.Errorf("summarizer timeout must be positive: %v", config.Summarizer.Timeout)
	}

	// Cap at 0.3 so summaries stay reproducible across schema retries
	if config.Summarizer.Temperature < 0 || config.Summarizer.Temperature > 0.3 {
		return fmt.Errorf("summarizer temperature must be within [0, 0.3]: %f", config.Summarizer.Temperature)
	}

	if config.Summarizer.MaxTokens <= 0 {
		return fmt.Errorf("summarizer max tokens must be positive: %d", config.Summarizer.MaxTokens)
	}

	if config.Summarizer.MaxSchemaRetries <= 0 {
		return fmt.Errorf("summarizer max schema retries must be positive: %d", config.Summarizer.MaxSchemaRetries)
	}

	if config.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry max attempts must be positive: %d", config.Retry.MaxAttempts)
	}

	if config.Retry.BackoffFactor <= 1.0 {
		return fmt.Errorf("backoff factor must be greater than 1.0: %f", config.Retry.BackoffFactor)
	}

	if config.Consumer.Enabled {
		if config.Consumer.RedisURL == "" {
			return fmt.Errorf("consumer redis URL cannot be empty when consumer is enabled")
		}

		if config.Consumer.StreamKey == "" {
			return fmt.Errorf("consumer stream key cannot be empty when consumer is enabled")
		}

		if config.Consumer.BatchSize <= 0 {
			return fmt.Errorf("consumer batch size must be positive: %d", config.Consumer.BatchSize)
		}
	}

	if config.Database.URL == "" {
		return fmt.Errorf("database URL cannot be empty")
	}

	if config.Database.MaxConns <= 0 {
		return fmt.Errorf("database max conns must be positive: %d", config.Database.MaxConns)
	}

	if config.Resume.Interval <= 0 {
		return fmt.Errorf("resume interval must be positive: %v", config.Resume.Interval)
	}

	if config.Resume.MaxRunAttempts <= 0 {
		return fmt.Errorf("resume max run attempts must be positive: %d", config.Resume.MaxRunAttempts)
	}

	return nil
}
