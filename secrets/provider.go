package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/approov-authorizer/config"
	"go.uber.org/zap"
)

// Provider fetches the raw (still base64 encoded) secret value by name.
type Provider interface {
	Fetch(ctx context.Context, name string) (string, error)
}

// NewProvider selects the provider for the configured storage mode.
// ENV_VAR reads the process environment; any other mode queries AWS Secrets Manager.
func NewProvider(ctx context.Context, cfg config.SecretConfig, logger *zap.Logger) (Provider, error) {
	if cfg.UsesEnvironmentSecret() {
		logger.Debug("the Approov base64 secret is fetched from an environment variable",
			zap.String("secret_name", cfg.Name))
		return NewEnvProvider(), nil
	}

	logger.Debug("the Approov base64 secret is fetched from AWS Secrets Manager",
		zap.String("secret_name", cfg.Name),
		zap.String("region", cfg.Region))

	provider, err := NewSecretsManagerProviderFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create secrets manager provider: %w", err)
	}
	return provider, nil
}

// Load resolves and decodes the named secret. It never fails: every problem is
// logged and reported as an absent (nil) Secret, which the verifier treats as
// fail-closed.
func Load(ctx context.Context, provider Provider, name string, logger *zap.Logger) Secret {
	if provider == nil {
		logger.Error("no secret provider configured, the Approov secret is unavailable",
			zap.String("secret_name", name))
		return nil
	}

	raw, err := provider.Fetch(ctx, name)
	if err != nil {
		switch {
		case errors.Is(err, ErrSecretNotFound):
			logger.Error("the Approov secret was not found",
				zap.String("secret_name", name),
				zap.Error(err))
		case errors.Is(err, ErrSecretStoreUnavailable):
			logger.Error("the secret store could not be queried for the Approov secret",
				zap.String("secret_name", name),
				zap.Error(err))
		default:
			logger.Error("failed to fetch the Approov secret",
				zap.String("secret_name", name),
				zap.Error(err))
		}
		return nil
	}

	secret, err := Decode(raw)
	if err != nil {
		logger.Error("the Approov secret is not valid base64",
			zap.String("secret_name", name),
			zap.Error(err))
		return nil
	}

	logger.Debug("the Approov secret was loaded", zap.String("secret_name", name))
	return secret
}
