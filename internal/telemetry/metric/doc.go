// Package metric provides Prometheus metrics for sigcap.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: metric registry and HTTP handler
//   - collector.go: live collector over the waveform container
//
// Metrics include:
//
//   - Request latency histograms
//   - Capture and annotation counters
//   - Waveform state gauges (transitions, sample rate, channels)
//   - Archive storage statistics (registered by internal/storage)
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
