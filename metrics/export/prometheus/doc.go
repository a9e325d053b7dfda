// Package prometheus renders goGuard authenticator metrics in the Prometheus
// text exposition format.
//
// [NewPrometheusExporter] wraps an Authenticator and exposes an [http.Handler].
// Counters are named goguard_*_total; the single histogram is
// goguard_resolve_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global registry; callers mount the Handler.
//   - Mutate authenticator state.
package prometheus
