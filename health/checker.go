package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/upcall/call"
)

// Status represents the health status of a component.
type Status int

const (
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy Status = iota
	// StatusDegraded indicates the component is functioning but with issues.
	StatusDegraded
	// StatusUnhealthy indicates the component is not functioning properly.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result contains the outcome of a health check.
type Result struct {
	// Status is the health status.
	Status Status

	// Message provides additional context about the status.
	Message string

	// Details contains arbitrary metadata about the check.
	Details map[string]any

	// Timestamp is when the check was performed.
	Timestamp time.Time
}

// Checker is the interface for health checks.
type Checker interface {
	// Name returns the name of this checker.
	Name() string

	// Check performs the health check and returns the result.
	Check(ctx context.Context) Result
}

// CheckerFunc is an adapter to allow ordinary functions to be used as
// Checkers.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc creates a new CheckerFunc.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the name of this checker.
func (f *CheckerFunc) Name() string {
	return f.name
}

// Check performs the health check.
func (f *CheckerFunc) Check(ctx context.Context) Result {
	return f.fn(ctx)
}

// StatusOf maps a breaker snapshot to a health status. A closed breaker
// is healthy, a half-open breaker is degraded (the upstream is on
// probation), and an open breaker is unhealthy.
func StatusOf(snap call.Snapshot) Status {
	switch snap.State {
	case call.StateClosed:
		return StatusHealthy
	case call.StateHalfOpen:
		return StatusDegraded
	default:
		return StatusUnhealthy
	}
}

// BreakerChecker reports the health of a single circuit breaker.
type BreakerChecker struct {
	name    string
	breaker *call.Breaker
}

// NewBreakerChecker creates a checker for the given breaker, typically
// one profile's breaker obtained through the registry.
func NewBreakerChecker(name string, breaker *call.Breaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// Name returns the name of this checker.
func (c *BreakerChecker) Name() string {
	return c.name
}

// Check reads the breaker snapshot and maps it to a result. It never
// mutates the breaker.
func (c *BreakerChecker) Check(ctx context.Context) Result {
	return resultFor(c.breaker.Snapshot())
}

func resultFor(snap call.Snapshot) Result {
	status := StatusOf(snap)

	var message string
	switch status {
	case StatusHealthy:
		message = "circuit closed"
	case StatusDegraded:
		message = "circuit half-open, trial in progress"
	default:
		message = fmt.Sprintf("circuit open after %d consecutive failures", snap.Failures)
	}

	details := map[string]any{
		"state":                snap.State.String(),
		"consecutive_failures": snap.Failures,
	}
	if !snap.LastFailure.IsZero() {
		details["last_failure"] = snap.LastFailure.UTC().Format(time.RFC3339)
	}

	return Result{
		Status:    status,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}
