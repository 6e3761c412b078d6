package call

import "time"

// Result is the outcome of one logical call, covering every attempt made.
type Result[T any] struct {
	// Value is the operation's result. Only meaningful when Err is nil.
	Value T

	// Err is the final failure: the fatal error, the last error after the
	// attempt budget ran out (wrapped in *ExhaustedError), or a
	// *CircuitOpenError when the breaker rejected the call outright.
	Err error

	// Attempts is the number of times the operation was invoked. At least 1,
	// except when the breaker rejected the call before any attempt (0).
	Attempts int

	// Elapsed is the wall-clock duration of the whole call, including
	// backoff sleeps.
	Elapsed time.Duration
}

// Succeeded reports whether the call produced a value.
func (r Result[T]) Succeeded() bool {
	return r.Err == nil
}
