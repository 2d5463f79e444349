// Package telemetry provides structured logging, metrics, and distributed
// tracing for wayfind.
//
// Logging wraps zerolog with component loggers and context propagation, so
// the search engine, scenario loader, and CLI share one configured sink.
// Metrics exposes Prometheus counters, histograms, and gauges for search
// runs (started/completed, node generation and expansion counts, solution
// lengths) with an optional HTTP endpoint. Tracing wraps the OpenTelemetry
// SDK with stdout and OTLP-gRPC exporters and emits one span per search run.
//
// All three are configured through Config; DefaultConfig returns sensible
// development defaults and Validate rejects malformed settings before any
// component starts.
package telemetry
