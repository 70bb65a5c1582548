package context

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	// QueryIDKey is the context key for the remote query ID
	QueryIDKey contextKey = "query_id"
	// SessionIDKey is the context key for the interactive session ID
	SessionIDKey contextKey = "session_id"
)

// WithQueryID adds a query ID to the context
func WithQueryID(ctx context.Context, queryID string) context.Context {
	return context.WithValue(ctx, QueryIDKey, queryID)
}

// GetQueryID retrieves the query ID from context
func GetQueryID(ctx context.Context) string {
	if id, ok := ctx.Value(QueryIDKey).(string); ok {
		return id
	}
	return ""
}

// WithSessionID adds a session ID to the context
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// GetSessionID retrieves the session ID from context
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionIDKey).(string); ok {
		return id
	}
	return ""
}

// GenerateID generates a unique identifier for a query or session
func GenerateID() string {
	return uuid.NewString()
}

// EnsureQueryID returns ctx unchanged if it already carries a query ID,
// otherwise a child context with a fresh one.
func EnsureQueryID(ctx context.Context) (context.Context, string) {
	if id := GetQueryID(ctx); id != "" {
		return ctx, id
	}
	id := GenerateID()
	return WithQueryID(ctx, id), id
}
