package shared

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// Context keys for request-scoped data. Keep types unexported to avoid collisions.
type ctxKey string

const ctxKeyRequestID ctxKey = "request-id"

// WithRequestID stores the request ID for log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// RequestID returns the request ID set by WithRequestID, falling back to the
// Lambda invocation's AWS request ID.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok && v != "" {
		return v
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.AwsRequestID
	}
	return ""
}
