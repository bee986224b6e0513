package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/upb/approov-authorizer/app"
)

// HealthCheck returns a simple health check handler
func HealthCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// ReadinessCheck reports not ready while the Approov secret is absent,
// since every request would be denied.
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"status": "ready",
			"checks": map[string]string{
				"approov_secret": "loaded",
			},
		}

		status := http.StatusOK
		if !deps.Ready() {
			status = http.StatusServiceUnavailable
			response["status"] = "not_ready"
			response["checks"] = map[string]string{"approov_secret": "missing"}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	}
}
