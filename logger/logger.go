// ABOUTME: This file provides slog-based structured logging for the service
// ABOUTME: JSON output with lowercase levels and a service attribute
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config represents logger configuration.
type Config struct {
	Level       string
	ServiceName string
}

// LoadConfigFromEnv loads logger configuration from environment variables.
func LoadConfigFromEnv() *Config {
	return &Config{
		Level:       getEnvOrDefault("LOG_LEVEL", "info"),
		ServiceName: getEnvOrDefault("SERVICE_NAME", "summary-pipeline"),
	}
}

// Init creates the service logger from configuration.
func Init(config *Config) *slog.Logger {
	return NewWithLevel(os.Stdout, config.ServiceName, config.Level)
}

// InitWithOTel creates the service logger, mirroring records to the
// OpenTelemetry log pipeline when enabled.
func InitWithOTel(config *Config, enableOTel bool) *slog.Logger {
	var handler slog.Handler = newJSONHandler(os.Stdout, parseLevel(config.Level))
	if enableOTel {
		handler = NewMultiHandler(handler, config.ServiceName)
	}
	return slog.New(handler).With("service", config.ServiceName)
}

// NewWithLevel creates a JSON slog.Logger with the given level.
func NewWithLevel(output io.Writer, serviceName, level string) *slog.Logger {
	handler := newJSONHandler(output, parseLevel(level))
	return slog.New(handler).With("service", serviceName)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newJSONHandler(output io.Writer, slogLevel slog.Level) *slog.JSONHandler {
	options := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Lowercase level values for log-forwarder compatibility
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					return slog.Attr{Key: "level", Value: slog.StringValue(strings.ToLower(lvl.String()))}
				}
			}
			return a
		},
	}

	return slog.NewJSONHandler(output, options)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
