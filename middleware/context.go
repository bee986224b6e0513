package middleware

import (
	"context"

	"github.com/upb/approov-authorizer/approov"
)

// Context key type to avoid collisions
type contextKey string

// ClaimsKey is the context key for verified Approov token claims
const ClaimsKey contextKey = "approov_claims"

// GetClaimsFromContext retrieves the Approov claims from context
func GetClaimsFromContext(ctx context.Context) approov.Claims {
	if val := ctx.Value(ClaimsKey); val != nil {
		if claims, ok := val.(approov.Claims); ok {
			return claims
		}
	}
	return nil
}

// WithClaims adds Approov claims to the context
func WithClaims(ctx context.Context, claims approov.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}
