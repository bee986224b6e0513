package approov

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/upb/approov-authorizer/internal/shared"
	"github.com/upb/approov-authorizer/secrets"
	"go.uber.org/zap"
)

var (
	// ErrMissingSecret is returned when no key material is configured
	ErrMissingSecret = errors.New("missing Approov secret")

	// ErrInvalidToken is returned when the token is invalid
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")
)

// Rejection reasons attached to verification logs.
const (
	ReasonInvalid = "invalid"
	ReasonExpired = "expired"
)

// allowedMethods is the only algorithm family Approov tokens are verified with.
// It is handed to the parser so the token header can never select another one.
var allowedMethods = []string{jwt.SigningMethodHS256.Alg()}

// Verifier validates Approov tokens against the shared secret.
type Verifier struct {
	secret secrets.Secret
	logger *zap.Logger
	now    func() time.Time
	leeway time.Duration
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

// WithLeeway tolerates clock skew when validating exp and nbf.
func WithLeeway(leeway time.Duration) Option {
	return func(v *Verifier) {
		if leeway > 0 {
			v.leeway = leeway
		}
	}
}

// NewVerifier creates a verifier for secret. An absent secret is accepted;
// every verification then fails with ErrMissingSecret.
func NewVerifier(secret secrets.Secret, logger *zap.Logger, opts ...Option) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := &Verifier{
		secret: secret,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// HasSecret reports whether key material is available.
func (v *Verifier) HasSecret() bool {
	return !v.secret.IsZero()
}

// Verify checks the token signature (HS256 only) and, when present, its expiry
// and returns the decoded claims.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (Claims, error) {
	requestID := shared.RequestID(ctx)

	if v.secret.IsZero() {
		v.logger.Error("an unauthorized response will be sent due to the missing Approov secret",
			zap.String("request_id", requestID))
		return nil, ErrMissingSecret
	}

	claims, err := v.parse(tokenString)
	if err != nil {
		reason := ReasonInvalid
		if errors.Is(err, ErrTokenExpired) {
			reason = ReasonExpired
		}
		v.logger.Info("Approov token verification failed",
			zap.String("request_id", requestID),
			zap.String("reason", reason),
			zap.Error(err))
		return nil, err
	}

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("sub", claims.Subject()),
		zap.String("did", claims.DeviceID()),
	}
	if exp, ok := claims.ExpiresAt(); ok {
		fields = append(fields, zap.Time("expires_at", exp))
	}
	v.logger.Debug("Approov token verified", fields...)

	return claims, nil
}

// parse runs the signature and claims validation.
func (v *Verifier) parse(tokenString string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods(allowedMethods),
		jwt.WithTimeFunc(v.now),
		jwt.WithLeeway(v.leeway),
		jwt.WithJSONNumber(),
	)

	claims := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret.Bytes(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return Claims(claims), nil
}
