package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"

	// RequestIDKey is the echo context key holding the request ID.
	RequestIDKey = "request_id"
)

// RequestLog returns Echo middleware that logs requests with structured
// fields. It reuses the caller's X-Request-ID or generates one, and echoes it
// in the response. Successful probe requests are logged once per path; probe
// failures are always logged at warn level.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var probed sync.Map

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Set(RequestIDKey, reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status
			attrs := []any{
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			}

			switch {
			case isProbePath(path) && status < http.StatusMultipleChoices:
				if _, seen := probed.LoadOrStore(path, struct{}{}); !seen {
					log.Info("request", attrs...)
				}
			case isProbePath(path):
				log.Warn("request", attrs...)
			case status >= http.StatusInternalServerError:
				log.Error("request", attrs...)
			default:
				log.Info("request", attrs...)
			}

			return err
		}
	}
}
