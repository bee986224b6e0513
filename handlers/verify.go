package handlers

import (
	"net/http"

	"github.com/upb/approov-authorizer/app"
	"github.com/upb/approov-authorizer/middleware"
	"github.com/upb/approov-authorizer/utils"
)

// SubjectHeader carries the token subject back to the proxy on success
const SubjectHeader = "X-Approov-Subject"

// VerifyHandler is the forward-auth endpoint. It answers 200 with the
// decision when the Approov token is valid and 401 with the same decision
// shape otherwise.
func VerifyHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := deps.Authorizer
		decision := a.DecideToken(r.Context(), r.Header.Get(a.Header()))

		if !decision.IsAuthorized {
			_ = utils.WriteJSON(w, http.StatusUnauthorized, decision)
			return
		}

		if sub := decision.Context.ApproovTokenClaims.Subject(); sub != "" {
			w.Header().Set(SubjectHeader, sub)
		}
		_ = utils.WriteJSON(w, http.StatusOK, decision)
	}
}

// ClaimsHandler returns the claims attached by the Approov middleware.
func ClaimsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.GetClaimsFromContext(r.Context())
		if claims == nil {
			_ = utils.WriteUnauthorized(w, "")
			return
		}
		_ = utils.WriteJSON(w, http.StatusOK, claims)
	}
}
