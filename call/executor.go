package call

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// jitterFraction is the upper bound of the random addition to each backoff
// delay, as a fraction of the computed delay.
const jitterFraction = 0.1

// Operation is a single unit of upstream work. The context carries the
// per-attempt deadline; implementations should stop when it is done so
// timed-out work does not pile up.
type Operation[T any] func(ctx context.Context) (T, error)

// SleepFunc waits for the given duration or until the context is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryHook is invoked before each backoff sleep, after an attempt failed
// with a retryable error.
type RetryHook func(ctx context.Context, label string, attempt int, err error, delay time.Duration)

// Executor runs one logical operation to completion or gives up, applying a
// retry policy and a shared circuit breaker.
//
// The breaker is consulted exactly once, before the first attempt. A call
// admitted while the circuit was closed runs its full retry loop even if
// other callers trip the breaker mid-way; only the final outcome of the whole
// call feeds back into the breaker.
type Executor struct {
	policy    Policy
	breaker   *Breaker
	onRetry   RetryHook
	sleep     SleepFunc
	randFloat func() float64
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRetryHook registers a hook called before each backoff sleep.
func WithRetryHook(hook RetryHook) ExecutorOption {
	return func(e *Executor) {
		e.onRetry = hook
	}
}

// WithSleep replaces the backoff sleep. Used by tests to observe delays
// without waiting them out.
func WithSleep(sleep SleepFunc) ExecutorOption {
	return func(e *Executor) {
		e.sleep = sleep
	}
}

// WithRand replaces the jitter randomness source. Used by tests for
// deterministic delays.
func WithRand(randFloat func() float64) ExecutorOption {
	return func(e *Executor) {
		e.randFloat = randFloat
	}
}

// NewExecutor creates an executor for the given policy and breaker. The
// policy is validated and normalized; the breaker is required.
func NewExecutor(policy Policy, breaker *Breaker, opts ...ExecutorOption) (*Executor, error) {
	policy, err := policy.Validate()
	if err != nil {
		return nil, err
	}
	if breaker == nil {
		return nil, errors.New("call: breaker is required")
	}

	e := &Executor{
		policy:  policy,
		breaker: breaker,
		sleep:   defaultSleep,
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		randFloat: rand.Float64,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Policy returns the normalized policy.
func (e *Executor) Policy() Policy {
	return e.policy
}

// Breaker returns the shared circuit breaker.
func (e *Executor) Breaker() *Breaker {
	return e.breaker
}

// Execute runs an error-only operation through the full retry loop and
// returns its final error. See Run for the result-carrying form.
func (e *Executor) Execute(ctx context.Context, label string, op func(ctx context.Context) error) error {
	res := Run(ctx, e, label, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return res.Err
}

// Run executes op under the executor's policy and breaker.
//
// The loop makes up to MaxRetries+1 attempts. Each attempt races the
// operation against the policy timeout; a timer win counts as a transient
// ErrTimeout for that attempt. Fatal errors stop the loop immediately.
// Between attempts the loop sleeps min(base*multiplier^(n-1), max) plus
// uniform jitter in [0, 10%) of the delay.
func Run[T any](ctx context.Context, e *Executor, label string, op Operation[T]) Result[T] {
	start := time.Now()

	if !e.breaker.Allow() {
		snap := e.breaker.Snapshot()
		return Result[T]{
			Err:     &CircuitOpenError{State: snap.State, Failures: snap.Failures},
			Elapsed: time.Since(start),
		}
	}

	maxAttempts := e.policy.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		value, err := runAttempt(ctx, e.policy.Timeout, op)
		if err == nil {
			e.breaker.OnSuccess()
			return Result[T]{
				Value:    value,
				Attempts: attempt,
				Elapsed:  time.Since(start),
			}
		}
		lastErr = err

		if !e.policy.Retryable(err) || ctx.Err() != nil {
			e.breaker.OnFailure()
			return Result[T]{
				Err:      err,
				Attempts: attempt,
				Elapsed:  time.Since(start),
			}
		}

		if attempt == maxAttempts {
			break
		}

		delay := e.jitteredDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(ctx, label, attempt, err, delay)
		}
		if sleepErr := e.sleep(ctx, delay); sleepErr != nil {
			e.breaker.OnFailure()
			return Result[T]{
				Err:      sleepErr,
				Attempts: attempt,
				Elapsed:  time.Since(start),
			}
		}
	}

	e.breaker.OnFailure()
	elapsed := time.Since(start)
	return Result[T]{
		Err:      &ExhaustedError{Attempts: maxAttempts, Elapsed: elapsed, Err: lastErr},
		Attempts: maxAttempts,
		Elapsed:  elapsed,
	}
}

// runAttempt races one invocation of op against the attempt timeout. The
// deadline is threaded into op's context so a timed-out operation can stop
// instead of running on in the background.
func runAttempt[T any](ctx context.Context, timeout time.Duration, op Operation[T]) (T, error) {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		value, err := op(actx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-actx.Done():
		var zero T
		if errors.Is(actx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return zero, ErrTimeout
		}
		return zero, actx.Err()
	}
}

func (e *Executor) jitteredDelay(attempt int) time.Duration {
	delay := e.policy.BackoffDelay(attempt)
	jitter := time.Duration(e.randFloat() * jitterFraction * float64(delay))
	return delay + jitter
}

func defaultSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
