package telemetry

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

var redactedKeys = map[string]struct{}{
	"authorization":   {},
	"access_token":    {},
	"refresh_token":   {},
	"api_key":         {},
	"password":        {},
	"encryption_key":  {},
	"client_secret":   {},
	"cookie":          {},
}

// redactingHandler wraps an slog.Handler and strips attribute values whose
// key names commonly carry secrets, so every log sink gets the same
// hygiene regardless of format. Attributes attached through With are
// redacted the same way; attributes nested inside a group are not inspected.
type redactingHandler struct {
	slog.Handler
}

func (h redactingHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		if _, found := redactedKeys[strings.ToLower(a.Key)]; found {
			redacted.AddAttrs(slog.String(a.Key, "[redacted]"))
		} else {
			redacted.AddAttrs(a)
		}
		return true
	})
	return h.Handler.Handle(ctx, redacted)
}

func (h redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cleaned := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		if _, found := redactedKeys[strings.ToLower(a.Key)]; found {
			a = slog.String(a.Key, "[redacted]")
		}
		cleaned[i] = a
	}
	return redactingHandler{h.Handler.WithAttrs(cleaned)}
}

func (h redactingHandler) WithGroup(name string) slog.Handler {
	return redactingHandler{h.Handler.WithGroup(name)}
}

// NewLogger builds a structured logger. format is "json" or "text";
// level is one of "debug", "info", "warn", "error".
func NewLogger(format, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var base slog.Handler
	switch strings.ToLower(format) {
	case "text":
		base = slog.NewTextHandler(os.Stdout, opts)
	default:
		base = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(redactingHandler{base})
}
