// Package observe provides observability primitives for tool execution.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. The Observer wires OpenTelemetry tracing, metrics,
// and structured logging; the Recorder is the execution metrics/logging
// sink adapters call at each invocation lifecycle point, keeping per-tool
// aggregates and a bounded execution history.
package observe
