// Package log provides slog helpers shared by the client and the CLI.
package log

import (
	"context"
	"log/slog"
	"strings"
)

// Redacted replaces every value that must not reach a log sink.
const Redacted = "[REDACTED]"

// sensitiveKeys defines the list of keys whose values should be redacted.
// Keys are case-insensitive and match as substrings.
var sensitiveKeys = []string{
	"password",
	"pass",
	"secret",
	"token",
	"auth",
	"cred",
	"cookie",
}

// credentialSchemes prefix header values that carry credentials, whatever
// attribute key they were logged under.
var credentialSchemes = []string{
	"basic ",
	"bearer ",
	"negotiate ",
	"ntlm ",
}

// RedactingHandler is a slog.Handler that redacts credentials before
// passing records on.
type RedactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler creates a new RedactingHandler.
func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	if rh, ok := next.(*RedactingHandler); ok {
		return rh
	}
	return &RedactingHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(redacted)}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		group := make([]any, len(attrs))
		for i, attr := range attrs {
			group[i] = redactAttr(attr)
		}
		return slog.Group(a.Key, group...)
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, Redacted)
	}
	if a.Value.Kind() == slog.KindString && hasCredentialScheme(a.Value.String()) {
		return slog.String(a.Key, Redacted)
	}
	return a
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, sens := range sensitiveKeys {
		if strings.Contains(lower, sens) {
			return true
		}
	}
	return false
}

func hasCredentialScheme(v string) bool {
	lower := strings.ToLower(strings.TrimSpace(v))
	for _, scheme := range credentialSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}
