package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls one attribute out of a request context, such as the
// request ID or the matched route. It reports false when the value is absent.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// contextHandler appends extracted attributes to every record it handles.
// Extraction runs per call, after the level check, so disabled records cost
// nothing.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// NewContextHandler wraps next with extractors. Nil extractors are dropped;
// with none left, next is returned unchanged.
func NewContextHandler(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	var kept []ContextExtractor
	for _, ex := range extractors {
		if ex != nil {
			kept = append(kept, ex)
		}
	}
	if len(kept) == 0 {
		return next
	}
	return &contextHandler{next: next, extractors: kept}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.extractors))
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			attrs = append(attrs, attr)
		}
	}
	rec.AddAttrs(attrs...)
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
