package profile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonwraymond/upcall/call"
	"github.com/jonwraymond/upcall/guard"
	"github.com/jonwraymond/upcall/observe"
)

// Profile is one named pairing of retry policy, circuit breaker, and
// optional admission guards. Built once by NewRegistry and immutable
// afterwards; only the breaker's internal state changes over time.
type Profile struct {
	name    string
	exec    *call.Executor
	limiter *guard.RateLimiter
	gate    *guard.Gate
}

// Name returns the profile's unique name.
func (p *Profile) Name() string {
	return p.name
}

// Policy returns the profile's normalized retry policy.
func (p *Profile) Policy() call.Policy {
	return p.exec.Policy()
}

// Breaker returns the profile's circuit breaker.
func (p *Profile) Breaker() *call.Breaker {
	return p.exec.Breaker()
}

// Registry holds every operation profile of the process. Construct it once
// at startup and pass it to call sites; tests build their own registries
// with short timeouts instead of reaching for ambient global state.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	order    []string
	mw       *observe.Middleware
}

// Option configures a Registry.
type Option func(*Registry)

// WithMiddleware attaches telemetry to every call executed through the
// registry. Telemetry failures never abort a call.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(r *Registry) {
		r.mw = mw
	}
}

// WithObserver is a convenience wrapper building the middleware from an
// Observer.
func WithObserver(obs observe.Observer) Option {
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		// Meter setup failed; calls proceed unobserved.
		return func(r *Registry) {}
	}
	return WithMiddleware(mw)
}

// NewRegistry validates the configuration and builds one executor per
// profile.
func NewRegistry(cfg Config, opts ...Option) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		profiles: make(map[string]*Profile, len(cfg.Profiles)),
		order:    make([]string, 0, len(cfg.Profiles)),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, pc := range cfg.Profiles {
		p, err := r.buildProfile(pc)
		if err != nil {
			return nil, err
		}
		r.profiles[pc.Name] = p
		r.order = append(r.order, pc.Name)
	}

	return r, nil
}

func (r *Registry) buildProfile(pc ProfileConfig) (*Profile, error) {
	breaker := call.NewBreaker(call.BreakerConfig{
		FailureThreshold: pc.FailureThreshold,
		RecoveryTimeout:  pc.RecoveryTimeout,
	})

	opts := []call.ExecutorOption{}
	if r.mw != nil {
		mw := r.mw
		name := pc.Name
		opts = append(opts, call.WithRetryHook(func(ctx context.Context, label string, attempt int, err error, delay time.Duration) {
			mw.OnRetry(ctx, observe.CallMeta{Profile: name, Label: label}, attempt, err, delay)
		}))
	}

	exec, err := call.NewExecutor(pc.Policy(), breaker, opts...)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", pc.Name, err)
	}

	p := &Profile{name: pc.Name, exec: exec}
	if pc.Rate > 0 {
		p.limiter = guard.NewRateLimiter(pc.Rate, pc.Burst)
	}
	if pc.MaxConcurrent > 0 {
		p.gate = guard.NewGate(pc.MaxConcurrent)
	}
	return p, nil
}

// Lookup returns the named profile.
func (r *Registry) Lookup(name string) (*Profile, error) {
	r.mu.RLock()
	p, ok := r.profiles[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// Names returns registered profile names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Do executes op under the named profile and returns the full result:
// final value or error, attempts made, and elapsed time.
//
// An unknown profile name is a caller error: op is never invoked and
// nothing is retried. Guard rejections (rate limit, concurrency cap) are
// likewise returned without touching the retry loop or the breaker.
func Do[T any](ctx context.Context, r *Registry, profileName, label string, op call.Operation[T]) call.Result[T] {
	p, err := r.Lookup(profileName)
	if err != nil {
		return call.Result[T]{Err: err}
	}

	if p.limiter != nil && !p.limiter.Allow() {
		return call.Result[T]{Err: guard.ErrRateLimited}
	}
	if p.gate != nil {
		if err := p.gate.Acquire(); err != nil {
			return call.Result[T]{Err: err}
		}
		defer p.gate.Release()
	}

	meta := observe.CallMeta{Profile: profileName, Label: label}

	if r.mw != nil {
		spanCtx, span := r.mw.Start(ctx, meta)
		res := call.Run(spanCtx, p.exec, label, op)
		r.mw.Finish(spanCtx, span, meta, res.Attempts, res.Elapsed, res.Err)
		return res
	}

	return call.Run(ctx, p.exec, label, op)
}

// Execute runs an error-only operation under the named profile. See Do for
// the result-carrying form.
func (r *Registry) Execute(ctx context.Context, profileName, label string, op func(ctx context.Context) error) error {
	res := Do(ctx, r, profileName, label, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return res.Err
}

// Reset forces the named profile's breaker back to closed with a zero
// failure streak. Intended for operator recovery after a known-fixed
// upstream outage.
func (r *Registry) Reset(profileName string) error {
	p, err := r.Lookup(profileName)
	if err != nil {
		return err
	}
	p.Breaker().Reset()
	return nil
}

// Health returns every profile's breaker snapshot, keyed by profile name.
// It is a pure read: calling it never changes any breaker's state.
func (r *Registry) Health() map[string]call.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]call.Snapshot, len(r.profiles))
	for name, p := range r.profiles {
		out[name] = p.Breaker().Snapshot()
	}
	return out
}
