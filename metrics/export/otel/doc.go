// Package otel publishes goGuard authenticator metrics through OpenTelemetry.
//
// [NewOTelExporter] registers an Int64ObservableCounter per counter and an
// Int64ObservableGauge per histogram bucket. A single callback reads
// Authenticator.MetricsSnapshot on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider; callers supply the Meter.
//   - Mutate authenticator state.
package otel
