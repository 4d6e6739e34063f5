package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logging writes one structured line per request, tagged with the matched
// route and the photo or album it addressed.
func Logging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		status := c.Writer.Status()

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Int("bytes", c.Writer.Size()),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.ClientIP()),
		}
		if id := c.Param("id"); id != "" {
			attrs = append(attrs, slog.String("photoID", id))
		}
		if album := c.Param("slug"); album != "" {
			attrs = append(attrs, slog.String("album", album))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		logger.LogAttrs(c.Request.Context(), requestLevel(route, status, len(c.Errors) > 0), "request completed", attrs...)
	}
}

// requestLevel keeps image fetches and health checks out of the info log;
// a single album page requests dozens of images.
func requestLevel(route string, status int, failed bool) slog.Level {
	switch {
	case failed || status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case strings.HasSuffix(route, "/image"), route == "/healthz":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
