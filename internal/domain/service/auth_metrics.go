package service

import "time"

// Auth operation names reported to AuthMetrics.
const (
	OperationRegister = "register"
	OperationLogin    = "login"
	OperationRefresh  = "refresh"
	OperationLogout   = "logout"
)

// Auth operation outcomes reported to AuthMetrics.
const (
	OutcomeSuccess      = "success"
	OutcomeConflict     = "conflict"
	OutcomeUnauthorized = "unauthorized"
	OutcomeInvalid      = "invalid"
	OutcomeError        = "error"
)

// AuthMetrics records the outcome and latency of credential operations.
type AuthMetrics interface {
	Observe(operation, outcome string, elapsed time.Duration)
}

// NopAuthMetrics discards every observation.
type NopAuthMetrics struct{}

// Observe implements AuthMetrics.
func (NopAuthMetrics) Observe(string, string, time.Duration) {}
