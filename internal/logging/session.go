package logging

import (
	"context"
	"log/slog"
)

// FieldSessionID identifies one CLI invocation across console and file output.
const FieldSessionID = "session_id"

// sessionHandler appends session_id to every record after the handler's own
// attrs so it lands at the top level even inside groups.
type sessionHandler struct {
	next slog.Handler
	attr slog.Attr
}

func newSessionIDHandler(next slog.Handler, sessionID string) slog.Handler {
	if next == nil {
		return NoopHandler{}
	}
	return sessionHandler{next: next, attr: slog.String(FieldSessionID, sessionID)}
}

func (h sessionHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h sessionHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(h.attr)
	return h.next.Handle(ctx, record)
}

func (h sessionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.next = h.next.WithAttrs(attrs)
	return h
}

func (h sessionHandler) WithGroup(name string) slog.Handler {
	h.next = h.next.WithGroup(name)
	return h
}
