// Package clients is the resilient HTTP client used by the remote storage
// backend.
package clients

import "errors"

// Transport-level failures. Callers translate them to domain errors.
var (
	// ErrCircuitOpen means the breaker is rejecting calls to the backend.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last error once all attempts failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
