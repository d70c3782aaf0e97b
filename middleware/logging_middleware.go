// ABOUTME: This file provides HTTP request/response logging middleware
// ABOUTME: Produces structured access logs with timing information
package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"summary-pipeline/logger"
)

func LoggingMiddleware(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()

			start := time.Now()

			err := next(c)

			duration := time.Since(start)

			logger.FromContext(req.Context(), log).Info("request completed",
				"method", req.Method,
				"path", req.URL.Path,
				"status_code", res.Status,
				"response_size", res.Size,
				"ip_address", c.RealIP(),
				"duration_ms", duration.Milliseconds(),
			)

			return err
		}
	}
}
