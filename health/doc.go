// Package health reports the standing of circuit breakers toward an
// unreliable upstream.
//
// Every operation profile owns one breaker; this package maps breaker
// snapshots to a three-valued status (healthy, degraded, unhealthy) and
// exposes the mapping as checkers, an aggregating reporter, and HTTP
// probe handlers. Reporting is read-only: taking a snapshot never moves
// a breaker between states.
//
// # Basic Usage
//
//	reg, _ := profile.NewRegistry(profile.DefaultConfig())
//	rep := health.NewReporter(reg)
//
//	report := rep.Report(ctx)
//	if report.Status == health.StatusUnhealthy {
//	    log.Printf("upstream circuit open: %s", report.Message())
//	}
//
// # HTTP Endpoints
//
// The package provides handlers for common probe patterns:
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, rep)
//	// /healthz  liveness (process is up)
//	// /readyz   readiness (no profile has an open breaker)
//	// /health   detailed JSON per profile
package health
