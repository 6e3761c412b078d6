package call

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Policy is the immutable retry tuning for one class of upstream call.
// A zero-value field is replaced by its default in Validate; an explicitly
// invalid combination is rejected.
type Policy struct {
	// MaxRetries is the number of additional attempts after the first.
	// Zero means a single attempt with no retries.
	MaxRetries int

	// BaseDelay is the delay before the first retry.
	// Default: 100ms
	BaseDelay time.Duration

	// MaxDelay caps backoff growth.
	// Default: 30s
	MaxDelay time.Duration

	// BackoffMultiplier controls exponential growth (2.0 = double each retry).
	// Must be >= 1. Default: 2.0
	BackoffMultiplier float64

	// Timeout bounds each individual attempt.
	// Default: 30s
	Timeout time.Duration

	// RetryablePatterns are case-insensitive substrings matched against an
	// error's message and its Go type name. A failure matching none of them
	// is fatal and stops the retry loop immediately.
	// Default: DefaultRetryablePatterns()
	RetryablePatterns []string
}

// Policy validation errors.
var (
	ErrNegativeRetries   = errors.New("call: max retries must be >= 0")
	ErrDelayOrder        = errors.New("call: max delay must be >= base delay")
	ErrBadMultiplier     = errors.New("call: backoff multiplier must be >= 1")
	ErrNonPositiveDelay  = errors.New("call: base delay must be > 0")
	ErrNonPositiveWindow = errors.New("call: timeout must be > 0")
)

// DefaultRetryablePatterns returns the transient failure indicators of a
// typical generative AI upstream: network blips, per-minute rate limits, and
// overload shedding.
func DefaultRetryablePatterns() []string {
	return []string{
		"timeout",
		"deadline exceeded",
		"rate_limit_exceeded",
		"rate limit",
		"service_unavailable",
		"service unavailable",
		"connection reset",
		"connection refused",
		"overloaded",
		"temporarily",
		"429",
		"502",
		"503",
		"504",
	}
}

// DefaultPolicy returns a Policy with all defaults applied.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:        2,
		BaseDelay:         100 * time.Millisecond,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
		Timeout:           30 * time.Second,
		RetryablePatterns: DefaultRetryablePatterns(),
	}
}

// Validate applies defaults to zero-value fields and reports invariant
// violations. It returns the normalized policy.
func (p Policy) Validate() (Policy, error) {
	if p.MaxRetries < 0 {
		return p, ErrNegativeRetries
	}
	if p.BaseDelay == 0 {
		p.BaseDelay = 100 * time.Millisecond
	}
	if p.BaseDelay < 0 {
		return p, ErrNonPositiveDelay
	}
	if p.MaxDelay == 0 {
		p.MaxDelay = 30 * time.Second
	}
	if p.MaxDelay < p.BaseDelay {
		return p, fmt.Errorf("%w: max %s < base %s", ErrDelayOrder, p.MaxDelay, p.BaseDelay)
	}
	if p.BackoffMultiplier == 0 {
		p.BackoffMultiplier = 2.0
	}
	if p.BackoffMultiplier < 1 {
		return p, fmt.Errorf("%w: got %g", ErrBadMultiplier, p.BackoffMultiplier)
	}
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}
	if p.Timeout < 0 {
		return p, ErrNonPositiveWindow
	}
	if p.RetryablePatterns == nil {
		p.RetryablePatterns = DefaultRetryablePatterns()
	}
	return p, nil
}

// BackoffDelay returns the capped exponential delay before the retry that
// follows the given attempt (1-based), without jitter.
func (p Policy) BackoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	multiplier := math.Pow(p.BackoffMultiplier, float64(attempt-1))
	scaled := float64(p.BaseDelay) * multiplier
	// Compare before converting: large exponents overflow time.Duration.
	if scaled >= float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(scaled)
}
