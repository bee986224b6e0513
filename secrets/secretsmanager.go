package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
	"github.com/upb/approov-authorizer/config"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerProvider reads secrets from AWS Secrets Manager.
type SecretsManagerProvider struct {
	client SecretsManagerAPI
}

// NewSecretsManagerProvider wraps an existing client.
func NewSecretsManagerProvider(client SecretsManagerAPI) *SecretsManagerProvider {
	return &SecretsManagerProvider{client: client}
}

// NewSecretsManagerProviderFromConfig builds a client from the AWS default
// credential chain, honoring the configured region and endpoint override.
func NewSecretsManagerProviderFromConfig(ctx context.Context, cfg config.SecretConfig) (*SecretsManagerProvider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewSecretsManagerProvider(client), nil
}

// Fetch returns the SecretString of the secret identified by name.
// Missing secrets and empty payloads map to ErrSecretNotFound; every other
// API failure maps to ErrSecretStoreUnavailable.
func (p *SecretsManagerProvider) Fetch(ctx context.Context, name string) (string, error) {
	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%w: unknown secret %s", ErrSecretNotFound, name)
		}

		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: %s: %s", ErrSecretStoreUnavailable, apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
		return "", fmt.Errorf("%w: %v", ErrSecretStoreUnavailable, err)
	}

	// Secrets created with a binary payload have no SecretString.
	if out == nil || aws.ToString(out.SecretString) == "" {
		return "", fmt.Errorf("%w: secret %s has no SecretString", ErrSecretNotFound, name)
	}

	return aws.ToString(out.SecretString), nil
}
