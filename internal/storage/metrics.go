package storage

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterMetrics registers archive metrics with Prometheus and
// starts the periodic updater. Call once during initialization.
// Returns the engine for method chaining.
func (e *Engine) RegisterMetrics(registry *prometheus.Registry) *Engine {
	e.metricEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sigcap",
		Subsystem: "archive",
		Name:      "entries",
		Help:      "Number of captures in the archive",
	})

	e.metricTotalSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sigcap",
		Subsystem: "archive",
		Name:      "size_bytes",
		Help:      "Archive storage size in bytes (LSM + value log)",
	})

	e.metricLastGC = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sigcap",
		Subsystem: "archive",
		Name:      "last_gc_timestamp_seconds",
		Help:      "Unix timestamp of the last value-log GC run",
	})

	e.metricPuts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sigcap",
		Subsystem: "archive",
		Name:      "puts_total",
		Help:      "Total captures archived since start",
	})

	registry.MustRegister(
		e.metricEntries,
		e.metricTotalSize,
		e.metricLastGC,
		e.metricPuts,
	)

	go e.metricsUpdateLoop()
	return e
}

// metricsUpdateLoop refreshes the gauges from archive stats.
func (e *Engine) metricsUpdateLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			stats, err := e.Stats(ctx)
			cancel()
			if err != nil {
				continue
			}

			e.metricEntries.Set(float64(stats.Entries))
			e.metricTotalSize.Set(float64(stats.LSMSize + stats.ValueLogSize))
			if stats.LastGCTime > 0 {
				e.metricLastGC.Set(float64(stats.LastGCTime) / 1000.0)
			}

		case <-e.stopCh:
			return
		}
	}
}
