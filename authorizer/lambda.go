package authorizer

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

// claimsContextKey is the key the claims are published under in the gateway context.
const claimsContextKey = "approovTokenClaims"

// HandleRequest is the API Gateway HTTP API Lambda authorizer entry point,
// using the simple response format. It never returns an error: every failure
// is a denial.
func (a *Authorizer) HandleRequest(ctx context.Context, req events.APIGatewayV2CustomAuthorizerV2Request) (events.APIGatewayV2CustomAuthorizerSimpleResponse, error) {
	return a.Decide(ctx, req.Headers).SimpleResponse(), nil
}

// SimpleResponse converts the decision to the API Gateway simple response.
func (d Decision) SimpleResponse() events.APIGatewayV2CustomAuthorizerSimpleResponse {
	var claims interface{}
	if d.IsAuthorized {
		claims = d.Context.ApproovTokenClaims
	}
	return events.APIGatewayV2CustomAuthorizerSimpleResponse{
		IsAuthorized: d.IsAuthorized,
		Context: map[string]interface{}{
			claimsContextKey: claims,
		},
	}
}
