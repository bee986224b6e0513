package app

import (
	"context"

	"github.com/upb/approov-authorizer/approov"
	"github.com/upb/approov-authorizer/authorizer"
	"github.com/upb/approov-authorizer/config"
	"github.com/upb/approov-authorizer/internal/observability"
	"github.com/upb/approov-authorizer/middleware"
	"github.com/upb/approov-authorizer/secrets"
	"go.uber.org/zap"
)

// Dependencies holds everything resolved once per process and shared,
// read-only, by every request.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// Key material, absent when resolution failed
	Secret secrets.Secret

	// Authorization
	Verifier    *approov.Verifier
	Authorizer  *authorizer.Authorizer
	ApproovAuth *middleware.ApproovAuth

	provider secrets.Provider
}

// Option customizes dependency construction.
type Option func(*Dependencies)

// WithSecretProvider replaces the provider selected from configuration.
func WithSecretProvider(p secrets.Provider) Option {
	return func(d *Dependencies) {
		d.provider = p
	}
}

// WithMetrics replaces the default metrics collector.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Dependencies) {
		d.Metrics = m
	}
}

// NewDependencies creates and wires up all authorizer dependencies. The
// secret is resolved here, exactly once. Failing to resolve it is not an
// error: the authorizer starts and denies every request.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) *Dependencies {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}
	for _, opt := range opts {
		opt(deps)
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NewMetrics()
	}

	deps.initSecret(ctx)
	deps.initAuth()

	logger.Info("all dependencies initialized",
		zap.Bool("secret_loaded", !deps.Secret.IsZero()),
		zap.String("secret_storage", cfg.Secret.Storage),
		zap.Bool("production", cfg.IsProduction()),
		zap.String("token_header", cfg.Authorizer.TokenHeader))
	return deps
}

// Ready reports whether the authorizer can authorize any request at all.
func (d *Dependencies) Ready() bool {
	return d.Verifier != nil && d.Verifier.HasSecret()
}

// initSecret resolves the Approov secret from the configured storage
func (d *Dependencies) initSecret(ctx context.Context) {
	if d.provider == nil {
		provider, err := secrets.NewProvider(ctx, d.Config.Secret, d.Logger)
		if err != nil {
			d.Logger.Error("failed to initialize the secret provider, every request will be denied",
				zap.Error(err))
		}
		d.provider = provider
	}

	d.Secret = secrets.Load(ctx, d.provider, d.Config.Secret.Name, d.Logger)
	d.Metrics.SetSecretLoaded(!d.Secret.IsZero())
}

// initAuth builds the verifier and the request decision adapter
func (d *Dependencies) initAuth() {
	d.Verifier = approov.NewVerifier(d.Secret, d.Logger,
		approov.WithLeeway(d.Config.Authorizer.ClockLeeway))
	d.Authorizer = authorizer.New(d.Verifier, d.Config.Authorizer.TokenHeader, d.Metrics, d.Logger)
	d.ApproovAuth = middleware.NewApproovAuth(d.Authorizer, d.Logger)
}
