package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/upcall/call"
)

// SnapshotSource supplies breaker snapshots keyed by profile name. It is
// satisfied by *profile.Registry.
type SnapshotSource interface {
	Health() map[string]call.Snapshot
}

// Report is one aggregated view over every profile and extra checker.
type Report struct {
	// Status is the worst status across all checks.
	Status Status

	// Checks holds the per-check results, keyed by profile or checker name.
	Checks map[string]Result

	// Timestamp is when the report was assembled.
	Timestamp time.Time
}

// Message summarizes the report in one line.
func (r Report) Message() string {
	unhealthy := 0
	degraded := 0
	for _, res := range r.Checks {
		switch res.Status {
		case StatusUnhealthy:
			unhealthy++
		case StatusDegraded:
			degraded++
		}
	}
	switch {
	case unhealthy > 0:
		return fmt.Sprintf("%d of %d checks unhealthy", unhealthy, len(r.Checks))
	case degraded > 0:
		return fmt.Sprintf("%d of %d checks degraded", degraded, len(r.Checks))
	default:
		return "all checks healthy"
	}
}

// Reporter aggregates breaker snapshots from a registry into a health
// report. Reading is side-effect free, so probe scrapes can never move a
// breaker between states.
type Reporter struct {
	source SnapshotSource

	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string

	sfGroup singleflight.Group // collapses concurrent scrapes
}

// NewReporter creates a reporter over the given snapshot source. A nil
// source panics at the first Report; validate with Err if the source is
// dynamic.
func NewReporter(source SnapshotSource) *Reporter {
	return &Reporter{
		source:   source,
		checkers: make(map[string]Checker),
	}
}

// Err reports whether the reporter is usable.
func (r *Reporter) Err() error {
	if r.source == nil {
		return ErrNilSource
	}
	return nil
}

// Register adds an extra checker alongside the profile snapshots, for
// dependencies outside the breaker surface. A checker sharing a profile's
// name shadows that profile in the report.
func (r *Reporter) Register(c Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.checkers[c.Name()]; !exists {
		r.order = append(r.order, c.Name())
	}
	r.checkers[c.Name()] = c
}

// Unregister removes a previously registered checker.
func (r *Reporter) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.checkers, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// CheckerNames returns extra checker names in registration order.
func (r *Reporter) CheckerNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Check runs a single named check: a registered checker first, then a
// profile snapshot.
func (r *Reporter) Check(ctx context.Context, name string) (Result, error) {
	r.mu.RLock()
	c, ok := r.checkers[name]
	r.mu.RUnlock()

	if ok {
		return c.Check(ctx), nil
	}

	snaps := r.source.Health()
	snap, ok := snaps[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrCheckerNotFound, name)
	}
	return resultFor(snap), nil
}

// Report assembles the full report. Concurrent callers share one
// assembly: probe scrapers hitting /readyz and /health at the same
// moment observe the same snapshot instead of racing the source.
func (r *Reporter) Report(ctx context.Context) Report {
	v, _, _ := r.sfGroup.Do("report", func() (any, error) {
		return r.assemble(ctx), nil
	})
	return v.(Report)
}

func (r *Reporter) assemble(ctx context.Context) Report {
	checks := make(map[string]Result)

	for name, snap := range r.source.Health() {
		checks[name] = resultFor(snap)
	}

	r.mu.RLock()
	extra := make([]Checker, 0, len(r.order))
	for _, name := range r.order {
		extra = append(extra, r.checkers[name])
	}
	r.mu.RUnlock()

	for _, c := range extra {
		checks[c.Name()] = c.Check(ctx)
	}

	return Report{
		Status:    OverallStatus(checks),
		Checks:    checks,
		Timestamp: time.Now(),
	}
}

// OverallStatus computes the overall health status from a set of results.
// Returns Unhealthy if any check is unhealthy, Degraded if any check is
// degraded but none are unhealthy, Healthy otherwise.
func OverallStatus(results map[string]Result) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}
