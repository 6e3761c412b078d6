package guard

import "errors"

var (
	// ErrRateLimited is returned when the profile's request rate budget is
	// spent.
	ErrRateLimited = errors.New("guard: request rate limit exceeded")

	// ErrGateFull is returned when the profile already has the maximum
	// number of calls in flight.
	ErrGateFull = errors.New("guard: too many calls in flight")
)
