package call

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for call execution.
var (
	// ErrTimeout is returned when a single attempt exceeds the policy
	// timeout. Its message contains "timeout" so the default retryable
	// patterns classify it as transient.
	ErrTimeout = errors.New("call: attempt timeout")

	// ErrCircuitOpen reports that the breaker rejected the call. Returned
	// errors are of type *CircuitOpenError and match this sentinel with
	// errors.Is.
	ErrCircuitOpen = errors.New("call: circuit breaker is open")

	// ErrExhausted reports that every allowed attempt failed. Returned errors
	// are of type *ExhaustedError and match this sentinel with errors.Is.
	ErrExhausted = errors.New("call: retry attempts exhausted")
)

// CircuitOpenError is returned when the breaker rejects a call before any
// attempt is made. It carries the breaker state at rejection time.
type CircuitOpenError struct {
	State    State
	Failures int
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("call: circuit breaker is %s after %d consecutive failures", e.State, e.Failures)
}

// Is makes errors.Is(err, ErrCircuitOpen) succeed.
func (e *CircuitOpenError) Is(target error) bool {
	return target == ErrCircuitOpen
}

// ExhaustedError is returned when all allowed attempts failed with retryable
// errors. It wraps the last underlying error.
type ExhaustedError struct {
	Attempts int
	Elapsed  time.Duration
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("call: %d attempts exhausted after %s: %v", e.Attempts, e.Elapsed, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrExhausted) succeed.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}
