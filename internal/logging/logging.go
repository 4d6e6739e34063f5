package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const formatJSON = "json"

// New returns a text logger writing to stdout at level.
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stdout, level, "text")
}

// NewWithFormat is New with an explicit handler format. "json" selects the
// JSON handler; any other value produces text.
func NewWithFormat(level slog.Level, format string) *slog.Logger {
	return NewWithWriter(os.Stdout, level, format)
}

func NewWithWriter(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(format, formatJSON) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
