package config

import "time"

// Config aggregates all service configuration blocks.
type Config struct {
	Server       ServerConfig       `json:"server"`
	ContentStore ContentStoreConfig `json:"content_store"`
	Summarizer   SummarizerConfig   `json:"summarizer"`
	Retry        RetryConfig        `json:"retry"`
	Consumer     ConsumerConfig     `json:"consumer"`
	Database     DatabaseConfig     `json:"database"`
	Resume       ResumeConfig       `json:"resume"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"9300"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"300s"`
}

// ContentStoreConfig points at the CMS data API the pipeline reads from and
// writes summaries back to.
type ContentStoreConfig struct {
	BaseURL string        `json:"base_url" env:"CONTENT_STORE_BASE_URL" default:"http://content-store:3333"`
	Dataset string        `json:"dataset" env:"CONTENT_STORE_DATASET" default:"production"`
	Token   string        `json:"token" env:"CONTENT_STORE_TOKEN"`
	Timeout time.Duration `json:"timeout" env:"CONTENT_STORE_TIMEOUT" default:"15s"`
}

// SummarizerConfig points at the LLM generation API. Temperature is pinned
// low and MaxTokens caps the completion so summaries stay reproducible,
// concise and cost-bounded.
type SummarizerConfig struct {
	Host             string        `json:"host" env:"SUMMARIZER_HOST" default:"http://summarizer:11434"`
	APIPath          string        `json:"api_path" env:"SUMMARIZER_API_PATH" default:"/api/generate"`
	Model            string        `json:"model" env:"SUMMARIZER_MODEL" default:"gemma3:4b"`
	Temperature      float64       `json:"temperature" env:"SUMMARIZER_TEMPERATURE" default:"0.2"`
	MaxTokens        int           `json:"max_tokens" env:"SUMMARIZER_MAX_TOKENS" default:"800"`
	Timeout          time.Duration `json:"timeout" env:"SUMMARIZER_TIMEOUT" default:"300s"`
	MaxSchemaRetries int           `json:"max_schema_retries" env:"SUMMARIZER_MAX_SCHEMA_RETRIES" default:"3"`
}

type RetryConfig struct {
	MaxAttempts   int           `json:"max_attempts" env:"RETRY_MAX_ATTEMPTS" default:"3"`
	BaseDelay     time.Duration `json:"base_delay" env:"RETRY_BASE_DELAY" default:"1s"`
	MaxDelay      time.Duration `json:"max_delay" env:"RETRY_MAX_DELAY" default:"30s"`
	BackoffFactor float64       `json:"backoff_factor" env:"RETRY_BACKOFF_FACTOR" default:"2.0"`
	JitterFactor  float64       `json:"jitter_factor" env:"RETRY_JITTER_FACTOR" default:"0.1"`
}

// ConsumerConfig configures the Redis Streams trigger consumer.
type ConsumerConfig struct {
	RedisURL     string        `json:"redis_url" env:"CONSUMER_REDIS_URL" default:"redis://localhost:6379"`
	GroupName    string        `json:"group_name" env:"CONSUMER_GROUP_NAME" default:"summary-pipeline-group"`
	ConsumerName string        `json:"consumer_name" env:"CONSUMER_NAME" default:"summary-pipeline-1"`
	StreamKey    string        `json:"stream_key" env:"CONSUMER_STREAM_KEY" default:"events:content"`
	BatchSize    int64         `json:"batch_size" env:"CONSUMER_BATCH_SIZE" default:"10"`
	BlockTimeout time.Duration `json:"block_timeout" env:"CONSUMER_BLOCK_TIMEOUT" default:"5s"`
	Enabled      bool          `json:"enabled" env:"CONSUMER_ENABLED" default:"true"`
}

type DatabaseConfig struct {
	URL      string `json:"url" env:"DATABASE_URL" default:"postgres://localhost:5432/summary_pipeline"`
	MaxConns int32  `json:"max_conns" env:"DATABASE_MAX_CONNS" default:"4"`
}

// ResumeConfig governs the background job that re-drives interrupted runs.
type ResumeConfig struct {
	Interval       time.Duration `json:"interval" env:"RESUME_INTERVAL" default:"1m"`
	StaleAfter     time.Duration `json:"stale_after" env:"RESUME_STALE_AFTER" default:"10m"`
	MaxRunAttempts int           `json:"max_run_attempts" env:"RESUME_MAX_RUN_ATTEMPTS" default:"5"`
	BatchSize      int           `json:"batch_size" env:"RESUME_BATCH_SIZE" default:"10"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            9300,
			ShutdownTimeout: 30 * time.Second,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    300 * time.Second,
		},
		ContentStore: ContentStoreConfig{
			BaseURL: "http://content-store:3333",
			Dataset: "production",
			Timeout: 15 * time.Second,
		},
		Summarizer: SummarizerConfig{
			Host:             "http://summarizer:11434",
			APIPath:          "/api/generate",
			Model:            "gemma3:4b",
			Temperature:      0.2,
			MaxTokens:        800,
			Timeout:          300 * time.Second,
			MaxSchemaRetries: 3,
		},
		Retry: RetryConfig{
			MaxAttempts:   3,
			BaseDelay:     1 * time.Second,
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2.0,
			JitterFactor:  0.1,
		},
		Consumer: ConsumerConfig{
			RedisURL:     "redis://localhost:6379",
			GroupName:    "summary-pipeline-group",
			ConsumerName: "summary-pipeline-1",
			StreamKey:    "events:content",
			BatchSize:    10,
			BlockTimeout: 5 * time.Second,
			Enabled:      true,
		},
		Database: DatabaseConfig{
			URL:      "postgres://localhost:5432/summary_pipeline",
			MaxConns: 4,
		},
		Resume: ResumeConfig{
			Interval:       1 * time.Minute,
			StaleAfter:     10 * time.Minute,
			MaxRunAttempts: 5,
			BatchSize:      10,
		},
	}
}
