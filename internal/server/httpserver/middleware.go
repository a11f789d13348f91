package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mvoronova/journeykeeper/internal/common"
	"github.com/mvoronova/journeykeeper/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// ownerFromContext returns the authenticated profile id placed there by
// withAuth. Handlers behind the middleware can rely on it being set.
func ownerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// withAuth verifies the bearer token and stores the owning profile id in the
// request context. Every facade operation is scoped to that profile; there
// is no cross-owner access.
func (s *HTTPServer) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withRequestLog logs one line per request with method, path and duration.
func (s *HTTPServer) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "request handled",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
