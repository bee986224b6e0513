package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Decision outcomes recorded by the authorizer.
const (
	OutcomeAuthorized    = "authorized"
	OutcomeMissingToken  = "missing_token"
	OutcomeInvalid       = "invalid"
	OutcomeExpired       = "expired"
	OutcomeMissingSecret = "missing_secret"
)

// Metrics collects authorizer metrics on its own registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	decisions    *prometheus.CounterVec
	secretLoaded prometheus.Gauge
}

// NewMetrics creates and registers the authorizer collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "approov",
			Subsystem: "authorizer",
			Name:      "decisions_total",
			Help:      "Authorization decisions by outcome.",
		}, []string{"outcome"}),
		secretLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "approov",
			Subsystem: "authorizer",
			Name:      "secret_loaded",
			Help:      "1 when the Approov secret was resolved at startup, 0 otherwise.",
		}),
	}

	m.registry.MustRegister(m.decisions, m.secretLoaded)
	m.registry.MustRegister(collectors.NewGoCollector())

	for _, outcome := range []string{OutcomeAuthorized, OutcomeMissingToken, OutcomeInvalid, OutcomeExpired, OutcomeMissingSecret} {
		m.decisions.WithLabelValues(outcome)
	}

	return m
}

// RecordDecision increments the decision counter for outcome.
func (m *Metrics) RecordDecision(outcome string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(outcome).Inc()
}

// SetSecretLoaded records whether the secret is present.
func (m *Metrics) SetSecretLoaded(loaded bool) {
	if m == nil {
		return
	}
	if loaded {
		m.secretLoaded.Set(1)
		return
	}
	m.secretLoaded.Set(0)
}

// Decisions exposes the decision counter.
func (m *Metrics) Decisions() *prometheus.CounterVec {
	return m.decisions
}

// SecretLoaded exposes the secret state gauge.
func (m *Metrics) SecretLoaded() prometheus.Gauge {
	return m.secretLoaded
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
