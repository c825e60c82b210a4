package stark

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger creates a logger with the given handler. A nil handler falls
// back to a text handler on stderr at info level.
func NewLogger(handler slog.Handler) *slog.Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return slog.New(handler)
}

// NewJSONLogger creates a logger that writes JSON records to stderr.
// level sets the minimum log level.
func NewJSONLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a logger that writes human-readable text to
// stderr.
func NewTextLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a logger that discards all output.
func NoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
