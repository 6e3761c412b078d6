// Package call executes operations against unreliable upstream services.
//
// The package combines bounded retries with exponential backoff and jitter,
// a per-attempt timeout, pattern-based error classification, and a circuit
// breaker that stops hammering an upstream that keeps failing.
//
// # Components
//
//   - Policy: immutable retry tuning (attempt budget, delay curve, per-attempt
//     timeout, and which error messages are worth retrying).
//
//   - Breaker: a closed/open/half-open state machine tracking consecutive
//     call failures. While open it rejects calls outright; after a recovery
//     window it admits a single trial call.
//
//   - Executor: runs one logical call to completion or gives up, consulting
//     the breaker once up front and the policy between attempts.
//
// # Usage
//
//	policy := call.Policy{
//	    MaxRetries:        2,
//	    BaseDelay:         100 * time.Millisecond,
//	    MaxDelay:          5 * time.Second,
//	    BackoffMultiplier: 2.0,
//	    Timeout:           30 * time.Second,
//	    RetryablePatterns: call.DefaultRetryablePatterns(),
//	}
//
//	breaker := call.NewBreaker(call.BreakerConfig{
//	    FailureThreshold: 5,
//	    RecoveryTimeout:  time.Minute,
//	})
//
//	exec, err := call.NewExecutor(policy, breaker)
//	if err != nil {
//	    // invalid policy
//	}
//
//	res := call.Run(ctx, exec, "generate-text", func(ctx context.Context) (string, error) {
//	    return client.Generate(ctx, prompt)
//	})
//	if res.Succeeded() {
//	    use(res.Value)
//	}
//
// The breaker is checked once at the start of each logical call, not between
// attempts: a call that began while the circuit was closed finishes its own
// retry loop even if unrelated concurrent failures trip the breaker mid-way.
// The breaker is likewise updated only with the final outcome of the whole
// call, so it tracks "did this logical operation ultimately succeed" rather
// than individual attempt failures.
package call
