// Package observe provides telemetry for upstream call execution:
// OpenTelemetry tracing and metrics plus structured JSON logging, all behind
// small interfaces with no-op fallbacks. Telemetry failures never abort the
// call being observed.
package observe
