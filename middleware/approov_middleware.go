package middleware

import (
	"net/http"

	"github.com/upb/approov-authorizer/authorizer"
	"github.com/upb/approov-authorizer/internal/shared"
	"github.com/upb/approov-authorizer/utils"
	"go.uber.org/zap"
)

// ApproovAuth guards HTTP handlers with an Approov token check
type ApproovAuth struct {
	authorizer *authorizer.Authorizer
	logger     *zap.Logger
}

// NewApproovAuth creates a new ApproovAuth middleware
func NewApproovAuth(a *authorizer.Authorizer, logger *zap.Logger) *ApproovAuth {
	return &ApproovAuth{
		authorizer: a,
		logger:     logger,
	}
}

// RequireApproovToken is a middleware that requires a valid Approov token
func (m *ApproovAuth) RequireApproovToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		decision := m.authorizer.DecideToken(ctx, r.Header.Get(m.authorizer.Header()))
		if !decision.IsAuthorized {
			m.logger.Debug("request rejected by Approov token check",
				zap.String("request_id", shared.RequestID(ctx)),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Missing or invalid Approov token")
			return
		}

		ctx = WithClaims(ctx, decision.Context.ApproovTokenClaims.Clone())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
