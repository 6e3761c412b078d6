// Package guard provides admission control for upstream call profiles.
//
// Two guards are available:
//
//   - RateLimiter: a token bucket capping the sustained request rate against
//     a quota-metered upstream.
//
//   - Gate: a concurrency cap bounding how many calls to one profile may be
//     in flight at once.
//
// Guards reject over-budget calls with typed errors before any retry
// machinery runs; a rejection is a caller-side condition, not an upstream
// failure, so it is never retried and never counts against a circuit breaker.
package guard
