// Package logging builds the application slog logger and carries request ids
// through contexts.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/sheetsections-go/internal/config"
)

type contextKey string

// RequestIDContextKey is the context key of the request id.
const RequestIDContextKey contextKey = "request_id"

// New creates a logger from cfg and installs it as the slog default. The
// returned close function releases the log file, if any.
func New(cfg config.LoggingConfig) (*slog.Logger, func() error, error) {
	output, closeFn, err := openOutput(cfg)
	if err != nil {
		return nil, nil, err
	}

	logger := NewWithWriter(output, cfg.Format, cfg.Level)
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// NewWithWriter creates a logger writing to w in the given format.
func NewWithWriter(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(&requestIDHandler{Handler: handler})
}

func openOutput(cfg config.LoggingConfig) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Output) {
	case "file", "both":
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		if strings.EqualFold(cfg.Output, "both") {
			return io.MultiWriter(os.Stderr, file), file.Close, nil
		}
		return file, file.Close, nil
	case "stdout":
		return os.Stdout, noop, nil
	default:
		return os.Stderr, noop, nil
	}
}

// requestIDHandler adds request_id from the context to every record.
type requestIDHandler struct {
	slog.Handler
}

func (h *requestIDHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *requestIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &requestIDHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *requestIDHandler) WithGroup(name string) slog.Handler {
	return &requestIDHandler{Handler: h.Handler.WithGroup(name)}
}

// ParseLevel converts a level name to slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID stores a request id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDContextKey, id)
}

// RequestID returns the request id stored in ctx.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}

// FromContext returns the default logger, annotated with the request id of ctx
// when present.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if id := RequestID(ctx); id != "" {
		return logger.With(slog.String("request_id", id))
	}
	return logger
}
