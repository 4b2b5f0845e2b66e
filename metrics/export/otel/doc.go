// Package otel provides OpenTelemetry metric bindings for authcore
// counters.
//
// [NewExporter] registers an Int64ObservableCounter per engine metric; a
// single callback reads [authcore.Engine.MetricsSnapshot] on each
// collection cycle. Callers supply the Meter — the package never owns the
// MeterProvider.
package otel
