// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Facade metrics.
	MetricDumps     = "flexpersist_dumps_total"
	MetricLoads     = "flexpersist_loads_total"
	MetricDumpBytes = "flexpersist_dump_bytes"
	MetricLoadBytes = "flexpersist_load_bytes"

	// Pipeline compiler metrics.
	MetricCompiles    = "flexpersist_pipeline_compiles_total"
	MetricCacheHits   = "flexpersist_pipeline_cache_hits_total"
	MetricCacheMisses = "flexpersist_pipeline_cache_misses_total"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
