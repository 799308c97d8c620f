package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/swigepto/swigepto-backend/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

type sessionIDKey struct{}

// SessionContext resolves the caller's session id from the X-Session-Id
// header, minting one when absent, and echoes it back so the dialogue layer
// can keep using it for the rest of the conversation.
func SessionContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(sessionIDHeader)
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionIDHeader, sessionID)

			ctx := context.WithValue(r.Context(), sessionIDKey{}, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext returns the session id stored by SessionContext.
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}
