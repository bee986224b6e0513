// Package observability provides structured logging and metrics for the
// Approov token authorizer.
//
// This package implements:
//   - Structured logging (zap-based), JSON in production and console locally
//   - Prometheus metrics for authorization decisions and secret state
//
// Every authorization outcome is counted, and every rejection is logged with
// a reason so that misconfiguration can be told apart from bad clients.
package observability
