// Package prometheus provides a stats collector backed by Prometheus
// metrics. Metrics are created lazily on first use and registered under
// their stat name.
package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bourbaki-go/flexpersist/stats"
)

// Collector implements stats.Collector on a Prometheus registry.
type Collector struct {
	registry prometheus.Registerer

	mu         sync.RWMutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a collector registering its metrics in registry, or in
// prometheus.DefaultRegisterer when registry is nil.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// IncCounter increments the counter named name by delta.
func (c *Collector) IncCounter(name string, delta int64) {
	getOrCreate(c, c.counters, name, newCounter).Add(float64(delta))
}

// SetGauge sets the gauge named name to value.
func (c *Collector) SetGauge(name string, value int64) {
	getOrCreate(c, c.gauges, name, newGauge).Set(float64(value))
}

// ObserveHistogram records value in the histogram named name.
func (c *Collector) ObserveHistogram(name string, value float64) {
	getOrCreate(c, c.histograms, name, newHistogram).Observe(value)
}

func newCounter(name string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: name})
}

func newGauge(name string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: name})
}

func newHistogram(name string) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: name,
		Help: name,
		// Histograms here track payload sizes in bytes, so the buckets
		// span 64 B to 1 GiB.
		Buckets: prometheus.ExponentialBuckets(64, 4, 12),
	})
}

// getOrCreate returns the metric stored under name, building and
// registering it on first use. A metric already present in the registry
// under the same name is adopted instead of duplicated.
func getOrCreate[M prometheus.Collector](c *Collector, metrics map[string]M, name string, build func(string) M) M {
	c.mu.RLock()
	m, ok := metrics[name]
	c.mu.RUnlock()
	if ok {
		return m
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok = metrics[name]; ok {
		return m
	}

	m = build(name)
	if err := c.registry.Register(m); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(M); ok {
				metrics[name] = existing
				return existing
			}
		}
	}
	metrics[name] = m
	return m
}
