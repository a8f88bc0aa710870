package slogx

import (
	"context"
	"log/slog"
	"sync"
)

type ctxKey struct{}

type traceKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request logger, or the default logger outside a
// request.
func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithUserID tags every later log line in ctx with the acting member.
func WithUserID(ctx context.Context, userID string) context.Context {
	if t := traceFrom(ctx); t != nil {
		t.set(func(t *trace) { t.userID = userID })
	}
	return WithContext(ctx, FromContext(ctx).With("user_id", userID))
}

// WithOperation tags ctx with the GraphQL operation being executed and
// records it for the access log line.
func WithOperation(ctx context.Context, operation string) context.Context {
	if t := traceFrom(ctx); t != nil {
		t.set(func(t *trace) { t.operation = operation })
	}
	return WithContext(ctx, FromContext(ctx).With("operation", operation))
}

// FieldFailed counts a root field that resolved to an error.
func FieldFailed(ctx context.Context) {
	if t := traceFrom(ctx); t != nil {
		t.set(func(t *trace) { t.failedFields++ })
	}
}

// trace collects what the handler learned about a request so the access
// line written after it returns can report it.
type trace struct {
	mu           sync.Mutex
	userID       string
	operation    string
	failedFields int
}

func (t *trace) set(fn func(*trace)) {
	t.mu.Lock()
	fn(t)
	t.mu.Unlock()
}

func (t *trace) attrs() []any {
	t.mu.Lock()
	defer t.mu.Unlock()

	var attrs []any
	if t.userID != "" {
		attrs = append(attrs, "user_id", t.userID)
	}
	if t.operation != "" {
		attrs = append(attrs, "operation", t.operation)
	}
	if t.failedFields > 0 {
		attrs = append(attrs, "failed_fields", t.failedFields)
	}
	return attrs
}

func traceFrom(ctx context.Context) *trace {
	t, _ := ctx.Value(traceKey{}).(*trace)
	return t
}
