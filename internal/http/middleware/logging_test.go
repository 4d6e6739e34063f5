package middleware_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Oxyrus/gallery/internal/http/middleware"
	"github.com/Oxyrus/gallery/internal/logging"
)

func newLoggedEngine(buf *bytes.Buffer, level slog.Level) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(logging.NewWithWriter(buf, level, "json")))
	r.GET("/photos/:id", func(c *gin.Context) { c.String(http.StatusOK, "photo") })
	r.GET("/photos/:id/image", func(c *gin.Context) { c.String(http.StatusOK, "image") })
	r.GET("/albums/:slug", func(c *gin.Context) { c.String(http.StatusNotFound, "album not found") })
	r.GET("/broken", func(c *gin.Context) {
		_ = c.Error(errors.New("index unavailable"))
		c.Status(http.StatusServiceUnavailable)
	})
	return r
}

func serve(r *gin.Engine, path string) {
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var line map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("invalid log line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestLoggingTagsPhotoRequests(t *testing.T) {
	var buf bytes.Buffer
	serve(newLoggedEngine(&buf, slog.LevelInfo), "/photos/7")

	lines := logLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d", len(lines))
	}
	line := lines[0]
	if line["level"] != "INFO" {
		t.Fatalf("expected INFO, got %v", line["level"])
	}
	if line["route"] != "/photos/:id" {
		t.Fatalf("expected route /photos/:id, got %v", line["route"])
	}
	if line["photoID"] != "7" {
		t.Fatalf("expected photoID 7, got %v", line["photoID"])
	}
}

func TestLoggingKeepsImageRequestsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	serve(newLoggedEngine(&buf, slog.LevelInfo), "/photos/7/image")

	if buf.Len() != 0 {
		t.Fatalf("image request should not reach the info log: %s", buf.String())
	}

	buf.Reset()
	serve(newLoggedEngine(&buf, slog.LevelDebug), "/photos/7/image")

	lines := logLines(t, &buf)
	if len(lines) != 1 || lines[0]["level"] != "DEBUG" {
		t.Fatalf("expected one DEBUG line, got %v", lines)
	}
}

func TestLoggingRaisesLevelForFailures(t *testing.T) {
	var buf bytes.Buffer
	r := newLoggedEngine(&buf, slog.LevelInfo)

	serve(r, "/albums/missing")
	serve(r, "/broken")

	lines := logLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected two log lines, got %d", len(lines))
	}
	if lines[0]["level"] != "WARN" || lines[0]["album"] != "missing" {
		t.Fatalf("expected WARN line for missing album, got %v", lines[0])
	}
	if lines[1]["level"] != "ERROR" || lines[1]["errors"] == nil {
		t.Fatalf("expected ERROR line with errors, got %v", lines[1])
	}
}
