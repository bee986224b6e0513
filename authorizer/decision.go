package authorizer

import (
	"github.com/upb/approov-authorizer/approov"
)

// Decision is the authorizer response.
// IsAuthorized is true if and only if claims are attached.
type Decision struct {
	IsAuthorized bool            `json:"isAuthorized"`
	Context      DecisionContext `json:"context"`
}

// DecisionContext carries the verified token claims back to the gateway.
type DecisionContext struct {
	ApproovTokenClaims approov.Claims `json:"approovTokenClaims"`
}

// Allow builds an authorized decision. Nil claims produce a denial so the
// invariant cannot be broken by callers.
func Allow(claims approov.Claims) Decision {
	if claims == nil {
		return Deny()
	}
	return Decision{
		IsAuthorized: true,
		Context:      DecisionContext{ApproovTokenClaims: claims},
	}
}

// Deny builds an unauthorized decision with null claims.
func Deny() Decision {
	return Decision{}
}
