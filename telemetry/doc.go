// Package telemetry wires OpenTelemetry tracing and metrics for the
// authorization pipeline. It owns provider lifecycle and exposes typed
// instruments for recording authorization decisions.
package telemetry
