package secrets

import (
	"context"
	"fmt"
	"os"
)

// EnvProvider reads secrets from the process environment.
type EnvProvider struct {
	lookup func(string) (string, bool)
}

// NewEnvProvider creates a provider backed by os.LookupEnv.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{lookup: os.LookupEnv}
}

// Fetch returns the value of the environment variable name.
func (p *EnvProvider) Fetch(_ context.Context, name string) (string, error) {
	value, ok := p.lookup(name)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: environment variable %s is not set", ErrSecretNotFound, name)
	}
	return value, nil
}
