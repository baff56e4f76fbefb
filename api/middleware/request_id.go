package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/smallwonder/storefront-api/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns every request an id, echoes it on the response and
// binds it to the context logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := withRequestID(r.Context(), requestID)
			if logg != nil {
				ctx = logg.WithRequestID(ctx, requestID)
			}

			w.Header().Set(requestIDHeader, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
