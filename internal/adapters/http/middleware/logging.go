package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/campus-qa/internal/platform/logging"
)

// Logging logs one line per request with status and latency. Health and
// metrics paths under /-/ are skipped. The request context logger is
// derived from logger so handlers and the store log with the request ids.
func Logging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/-/") {
			c.Next()
			return
		}

		start := time.Now()
		ctx := c.Request.Context()

		reqLogger := logger
		if id := GetRequestID(c); id != "" {
			reqLogger = reqLogger.With(slog.String("request_id", id))
		}

		if id := GetCorrelationID(c); id != "" {
			reqLogger = reqLogger.With(slog.String("correlation_id", id))
		}

		c.Request = c.Request.WithContext(logging.WithContext(ctx, reqLogger))

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		reqLogger.Log(c.Request.Context(), level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
