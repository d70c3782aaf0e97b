package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadConfig builds the configuration from defaults and overrides provided
// via environment variables.
func LoadConfig() (*Config, error) {
	config := defaultConfig()

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func loadFromEnv(config *Config) error {
	if err := loadServerConfig(&config.Server); err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	if err := loadContentStoreConfig(&config.ContentStore); err != nil {
		return fmt.Errorf("failed to load content store config: %w", err)
	}

	if err := loadSummarizerConfig(&config.Summarizer); err != nil {
		return fmt.Errorf("failed to load summarizer config: %w", err)
	}

	if err := loadRetryConfig(&config.Retry); err != nil {
		return fmt.Errorf("failed to load retry config: %w", err)
	}

	if err := loadConsumerConfig(&config.Consumer); err != nil {
		return fmt.Errorf("failed to load consumer config: %w", err)
	}

	if err := loadDatabaseConfig(&config.Database); err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	if err := loadResumeConfig(&config.Resume); err != nil {
		return fmt.Errorf("failed to load resume config: %w", err)
	}

	return nil
}

func loadServerConfig(cfg *ServerConfig) error {
	var err error

	if cfg.Port, err = parseIntEnv("SERVER_PORT", cfg.Port); err != nil {
		return err
	}

	if cfg.ShutdownTimeout, err = parseDurationEnv("SERVER_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return err
	}

	if cfg.ReadTimeout, err = parseDurationEnv("SERVER_READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return err
	}

	if cfg.WriteTimeout, err = parseDurationEnv("SERVER_WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return err
	}

	return nil
}

func loadContentStoreConfig(cfg *ContentStoreConfig) error {
	var err error

	cfg.BaseURL = getStringEnv("CONTENT_STORE_BASE_URL", cfg.BaseURL)
	cfg.Dataset = getStringEnv("CONTENT_STORE_DATASET", cfg.Dataset)
	cfg.Token = getStringEnv("CONTENT_STORE_TOKEN", cfg.Token)

	if cfg.Timeout, err = parseDurationEnv("CONTENT_STORE_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}

	return nil
}

func loadSummarizerConfig(cfg *SummarizerConfig) error {
	var err error

	cfg.Host = getStringEnv("SUMMARIZER_HOST", cfg.Host)
	cfg.APIPath = getStringEnv("SUMMARIZER_API_PATH", cfg.APIPath)
	cfg.Model = getStringEnv("SUMMARIZER_MODEL", cfg.Model)

	if cfg.Temperature, err = parseFloatEnv("SUMMARIZER_TEMPERATURE", cfg.Temperature); err != nil {
		return err
	}

	if cfg.MaxTokens, err = parseIntEnv("SUMMARIZER_MAX_TOKENS", cfg.MaxTokens); err != nil {
		return err
	}

	if cfg.Timeout, err = parseDurationEnv("SUMMARIZER_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}

	if cfg.MaxSchemaRetries, err = parseIntEnv("SUMMARIZER_MAX_SCHEMA_RETRIES", cfg.MaxSchemaRetries); err != nil {
		return err
	}

	return nil
}

func loadRetryConfig(cfg *RetryConfig) error {
	var err error

	if cfg.MaxAttempts, err = parseIntEnv("RETRY_MAX_ATTEMPTS", cfg.MaxAttempts); err != nil {
		return err
	}

	if cfg.BaseDelay, err = parseDurationEnv("RETRY_BASE_DELAY", cfg.BaseDelay); err != nil {
		return err
	}

	if cfg.MaxDelay, err = parseDurationEnv("RETRY_MAX_DELAY", cfg.MaxDelay); err != nil {
		return err
	}

	if cfg.BackoffFactor, err = parseFloatEnv("RETRY_BACKOFF_FACTOR", cfg.BackoffFactor); err != nil {
		return err
	}

	if cfg.JitterFactor, err = parseFloatEnv("RETRY_JITTER_FACTOR", cfg.JitterFactor); err != nil {
		return err
	}

	return nil
}

func loadConsumerConfig(cfg *ConsumerConfig) error {
	var err error

	cfg.RedisURL = getStringEnv("CONSUMER_REDIS_URL", cfg.RedisURL)
	cfg.GroupName = getStringEnv("CONSUMER_GROUP_NAME", cfg.GroupName)
	cfg.ConsumerName = getStringEnv("CONSUMER_NAME", cfg.ConsumerName)
	cfg.StreamKey = getStringEnv("CONSUMER_STREAM_KEY", cfg.StreamKey)

	if cfg.BatchSize, err = parseInt64Env("CONSUMER_BATCH_SIZE", cfg.BatchSize); err != nil {
		return err
	}

	if cfg.BlockTimeout, err = parseDurationEnv("CONSUMER_BLOCK_TIMEOUT", cfg.BlockTimeout); err != nil {
		return err
	}

	if cfg.Enabled, err = parseBoolEnv("CONSUMER_ENABLED", cfg.Enabled); err != nil {
		return err
	}

	return nil
}

func loadDatabaseConfig(cfg *DatabaseConfig) error {
	cfg.URL = getStringEnv("DATABASE_URL", cfg.URL)

	maxConns, err := parseIntEnv("DATABASE_MAX_CONNS", int(cfg.MaxConns))
	if err != nil {
		return err
	}
	cfg.MaxConns = int32(maxConns)

	return nil
}

func loadResumeConfig(cfg *ResumeConfig) error {
	var err error

	if cfg.Interval, err = parseDurationEnv("RESUME_INTERVAL", cfg.Interval); err != nil {
		return err
	}

	if cfg.StaleAfter, err = parseDurationEnv("RESUME_STALE_AFTER", cfg.StaleAfter); err != nil {
		return err
	}

	if cfg.MaxRunAttempts, err = parseIntEnv("RESUME_MAX_RUN_ATTEMPTS", cfg.MaxRunAttempts); err != nil {
		return err
	}

	if cfg.BatchSize, err = parseIntEnv("RESUME_BATCH_SIZE", cfg.BatchSize); err != nil {
		return err
	}

	return nil
}

func getStringEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %w", key, err)
	}

	return parsed, nil
}

func parseInt64Env(key string, fallback int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %w", key, err)
	}

	return parsed, nil
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value for %s: %w", key, err)
	}

	return parsed, nil
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value for %s: %w", key, err)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %w", key, err)
	}

	return parsed, nil
}
