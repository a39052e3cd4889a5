package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	sessionIDKey     contextKey = "session_id"
	correlationIDKey contextKey = "correlation_id"
)

// NewCorrelationID returns a short id for one pipeline pass (analyze, recommend, ...).
func NewCorrelationID() string {
	return uuid.New().String()[:8]
}

// ContextWithSessionID tags ctx with the owning session.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext returns "" when no session is attached.
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithCorrelationID tags ctx with a correlation id.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextWithNewCorrelationID tags ctx with a freshly generated correlation id.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, NewCorrelationID())
}

// CorrelationIDFromContext returns "" when no correlation id is attached.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger with the session and correlation ids from ctx.
func Ctx(ctx context.Context) *zerolog.Logger {
	lc := Logger().With()
	if id := SessionIDFromContext(ctx); id != "" {
		lc = lc.Str("session_id", id)
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		lc = lc.Str("correlation_id", id)
	}
	l := lc.Logger()
	return &l
}
