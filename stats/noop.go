package stats

// Noop is a collector that discards all metrics.
type Noop struct{}

// Compile-time check that Noop implements Collector.
var _ Collector = (*Noop)(nil)

// NewNoop creates a new no-op collector.
func NewNoop() *Noop {
	return &Noop{}
}

// IncCounter does nothing.
func (n *Noop) IncCounter(name string, delta int64) {}

// SetGauge does nothing.
func (n *Noop) SetGauge(name string, value int64) {}

// ObserveHistogram does nothing.
func (n *Noop) ObserveHistogram(name string, value float64) {}
