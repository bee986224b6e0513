package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/approov-authorizer/internal/shared"
)

// RequestIDHeader is propagated from the proxy or generated per request
const RequestIDHeader = "X-Request-ID"

// RequestID stores the inbound X-Request-ID (or a new UUID) in the request
// context and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := shared.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
