package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/upb/approov-authorizer/app"
	"github.com/upb/approov-authorizer/config"
	"github.com/upb/approov-authorizer/internal/observability"
)

// The secret is resolved once per cold start in NewDependencies; warm
// invocations reuse it.
func main() {
	ctx := context.Background()

	cfg, err := config.New(ctx)
	if err != nil {
		for _, detail := range config.ValidationDetails(err) {
			log.Printf("invalid configuration: %s", detail)
		}
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	deps := app.NewDependencies(ctx, cfg, logger)

	lambda.Start(deps.Authorizer.HandleRequest)
}
