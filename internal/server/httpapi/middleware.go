package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/avolkovs/secretlink/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// UserIDFromContext returns the authenticated owner identity, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// authenticate verifies the Bearer token and stores the owner identity in
// the request context. Requests without a valid token are rejected; token
// issuance belongs to the external identity provider.
func authenticate(jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeErrorMessage(w, http.StatusUnauthorized, "missing token")
				return
			}

			userID, err := auth.GetUserIDFromToken(token, jwtSecret)
			if err != nil {
				writeErrorMessage(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rateLimit gates mutating operations. The requester key is the
// authenticated owner identity when present, otherwise the shared anonymous
// bucket.
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, _ := UserIDFromContext(r.Context())
		if !h.limiter.Allow(r.Context(), key) {
			writeErrorMessage(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
