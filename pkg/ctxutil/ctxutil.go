package ctxutil

import (
	"context"
	"strings"
	"time"
)

type ctxKey string

const (
	reviewerIDKey ctxKey = "reviewer_id"
	requestIDKey  ctxKey = "request_id"
)

// WithReviewerID stores the caller-supplied reviewer identity in the context.
// The identity is opaque and is not authenticated.
func WithReviewerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reviewerIDKey, id)
}

// ReviewerIDFromCtx extracts the reviewer identity from the context.
// Returns "" and false if the value is missing, blank, or wrong type.
func ReviewerIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(reviewerIDKey).(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Detached returns a context that keeps the values of parent but is not
// cancelled with it, bounded by timeout. Ledger writes use it so that a caller
// abandoning the request cannot roll back a record that is already being committed.
func Detached(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
