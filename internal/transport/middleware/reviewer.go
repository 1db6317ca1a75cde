package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/dualtrack-backend/pkg/ctxutil"
)

// ReviewerHeader carries the opaque reviewer identifier.
const ReviewerHeader = "X-Reviewer-Id"

const maxReviewerIDLen = 128

// ReviewerIdentity stores the caller-supplied reviewer id in the context.
// Requests without one pass through anonymously.
func ReviewerIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(ReviewerHeader))
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		if len(id) > maxReviewerIDLen {
			writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "reviewer id too long")
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxutil.WithReviewerID(r.Context(), id)))
	})
}

// RequireReviewer rejects requests that carry no reviewer id.
func RequireReviewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxutil.ReviewerIDFromCtx(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "REVIEWER_REQUIRED", "missing "+ReviewerHeader+" header")
			return
		}
		next.ServeHTTP(w, r)
	})
}
