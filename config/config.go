package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/upb/approov-authorizer/utils"
)

const (
	// SecretStorageEnv selects reading the base64 secret from an environment variable
	SecretStorageEnv = "ENV_VAR"

	// SecretStorageSecretsManager selects reading the base64 secret from AWS Secrets Manager
	SecretStorageSecretsManager = "AWS_SECRET_MANAGER"

	// DefaultSecretName is the logical name of the base64 encoded Approov secret
	DefaultSecretName = "APPROOV_BASE64_SECRET"

	// DefaultTokenHeader is the request header carrying the Approov token
	DefaultTokenHeader = "approov-token"
)

// Config represents the complete authorizer configuration
type Config struct {
	Secret        SecretConfig
	Authorizer    AuthorizerConfig
	Server        ServerConfig
	Observability ObservabilityConfig
	Environment   string `validate:"required"`
}

// SecretConfig controls where the Approov secret is resolved from
type SecretConfig struct {
	Storage  string `validate:"required"`
	Name     string `validate:"required"`
	Region   string // Empty falls back to the AWS SDK default chain
	Endpoint string `validate:"omitempty,url"` // Secrets Manager endpoint override (LocalStack)
}

// AuthorizerConfig holds the token verification settings
type AuthorizerConfig struct {
	TokenHeader string        `validate:"required"`
	ClockLeeway time.Duration `validate:"gte=0"`
}

// ServerConfig holds the forward-auth HTTP server configuration
type ServerConfig struct {
	Host               string
	Port               int           `validate:"min=1,max=65535"`
	ReadTimeout        time.Duration `validate:"gt=0"`
	WriteTimeout       time.Duration `validate:"gt=0"`
	ShutdownTimeout    time.Duration `validate:"gt=0"`
	CORSAllowedOrigins []string
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json console"`
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Secret: SecretConfig{
			Storage:  getEnv("APPROOV_BASE64_SECRET_STORAGE", SecretStorageSecretsManager),
			Name:     getEnv("APPROOV_SECRET_NAME", DefaultSecretName),
			Region:   getEnv("AWS_REGION", ""),
			Endpoint: getEnv("SECRETS_MANAGER_ENDPOINT", ""),
		},
		Authorizer: AuthorizerConfig{
			TokenHeader: strings.ToLower(getEnv("APPROOV_TOKEN_HEADER", DefaultTokenHeader)),
			ClockLeeway: getEnvAsDuration("APPROOV_CLOCK_LEEWAY", 0),
		},
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "0.0.0.0"),
			Port:               getPort(),
			ReadTimeout:        getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:       getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout:    getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Observability: ObservabilityConfig{
			// The Lambda runtime variable wins over the generic one; quietest level by default.
			LogLevel:  normalizeLogLevel(getEnv("LAMBDA_LOG_LEVEL", getEnv("LOG_LEVEL", "error"))),
			LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	return utils.ValidateStruct(c)
}

// ValidationDetails lists one line per invalid field of a configuration
// error, sorted by field. Other errors yield nil.
func ValidationDetails(err error) []string {
	if !utils.IsValidationError(err) {
		return nil
	}
	fields := utils.GetValidationFields(err)
	details := make([]string, 0, len(fields))
	for _, msg := range fields {
		details = append(details, msg)
	}
	sort.Strings(details)
	return details
}

// UsesEnvironmentSecret reports whether the secret is read from the process environment
func (c *SecretConfig) UsesEnvironmentSecret() bool {
	return c.Storage == SecretStorageEnv
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

// normalizeLogLevel lowercases level and maps the Python logging names
// (WARNING, CRITICAL, FATAL) onto the zap levels.
func normalizeLogLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "warning":
		return "warn"
	case "critical", "fatal":
		return "error"
	}
	return level
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
