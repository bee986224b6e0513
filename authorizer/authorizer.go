// Package authorizer turns an inbound request's headers into an
// authorization decision for an API gateway or reverse proxy.
package authorizer

import (
	"context"
	"errors"
	"strings"

	"github.com/upb/approov-authorizer/approov"
	"github.com/upb/approov-authorizer/config"
	"github.com/upb/approov-authorizer/internal/observability"
	"github.com/upb/approov-authorizer/internal/shared"
	"go.uber.org/zap"
)

// TokenVerifier defines the interface for verifying Approov tokens
type TokenVerifier interface {
	// Verify validates a token and returns its claims
	Verify(ctx context.Context, token string) (approov.Claims, error)
}

// Authorizer maps request headers to a Decision.
type Authorizer struct {
	verifier TokenVerifier
	header   string
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// New creates an Authorizer reading the token from header
// (config.DefaultTokenHeader when empty). metrics may be nil.
func New(verifier TokenVerifier, header string, metrics *observability.Metrics, logger *zap.Logger) *Authorizer {
	if header == "" {
		header = config.DefaultTokenHeader
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authorizer{
		verifier: verifier,
		header:   header,
		metrics:  metrics,
		logger:   logger,
	}
}

// Header returns the name of the header the token is read from.
func (a *Authorizer) Header() string {
	return a.header
}

// Decide authorizes a request from its headers. A nil map, a missing header
// and an empty value are all treated as "no token" and never reach the verifier.
func (a *Authorizer) Decide(ctx context.Context, headers map[string]string) Decision {
	token, _ := LookupHeader(headers, a.header)
	return a.DecideToken(ctx, token)
}

// DecideToken authorizes an already extracted token value.
// An empty value is the "missing header" case.
func (a *Authorizer) DecideToken(ctx context.Context, token string) Decision {
	if token == "" {
		a.logger.Info("missing the Approov token header in the request",
			zap.String("request_id", shared.RequestID(ctx)),
			zap.String("header", a.header))
		a.metrics.RecordDecision(observability.OutcomeMissingToken)
		return Deny()
	}

	claims, err := a.verifier.Verify(ctx, token)
	if err != nil || claims == nil {
		a.metrics.RecordDecision(outcomeFor(err))
		return Deny()
	}

	a.metrics.RecordDecision(observability.OutcomeAuthorized)
	return Allow(claims)
}

// LookupHeader returns the non-empty value of name. An exact key match wins,
// otherwise the lookup is case-insensitive.
func LookupHeader(headers map[string]string, name string) (string, bool) {
	if headers == nil {
		return "", false
	}
	if v, ok := headers[name]; ok {
		return v, v != ""
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, v != ""
		}
	}
	return "", false
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, approov.ErrMissingSecret):
		return observability.OutcomeMissingSecret
	case errors.Is(err, approov.ErrTokenExpired):
		return observability.OutcomeExpired
	default:
		return observability.OutcomeInvalid
	}
}
