// Package metrics observes a running simulation and reduces it to
// scalar values for benchmarking and the live view.
package metrics

import (
	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/store"
)

// Metric accumulates one scalar over a run. Observe is called once per
// fixed step with the store and the step's counters.
type Metric interface {
	Name() string
	Observe(st *store.Store, stats phys.TickStats)
	Value() float64
	Reset()
}

// Collector fans one observation out to a set of metrics.
type Collector struct {
	metrics []Metric
}

func NewCollector(metrics ...Metric) *Collector {
	return &Collector{metrics: metrics}
}

func (c *Collector) Observe(st *store.Store, stats phys.TickStats) {
	for _, m := range c.metrics {
		m.Observe(st, stats)
	}
}

func (c *Collector) Values() map[string]float64 {
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (c *Collector) Metrics() []Metric { return c.metrics }

func (c *Collector) Reset() {
	for _, m := range c.metrics {
		m.Reset()
	}
}
