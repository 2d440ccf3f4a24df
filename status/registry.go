package status

import (
	"fmt"
	"sync/atomic"
)

// Registry is the central metrics facade
// Components cache pointers at construction; tick loops write directly to atomics
type Registry struct {
	Bools  *MetricMap[atomic.Bool]
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:  NewMetricMap[atomic.Bool](),
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count()
}

// Metric is one formatted entry of a registry snapshot
type Metric struct {
	Key   string
	Value string
}

// Snapshot returns every metric formatted for display, ints first, then floats, then bools
// Each group is sorted by key
func (r *Registry) Snapshot() []Metric {
	out := make([]Metric, 0, r.TotalCount())
	r.Ints.Range(func(key string, v *atomic.Int64) {
		out = append(out, Metric{Key: key, Value: fmt.Sprintf("%d", v.Load())})
	})
	r.Floats.Range(func(key string, v *AtomicFloat) {
		out = append(out, Metric{Key: key, Value: fmt.Sprintf("%.2f", v.Get())})
	})
	r.Bools.Range(func(key string, v *atomic.Bool) {
		out = append(out, Metric{Key: key, Value: fmt.Sprintf("%t", v.Load())})
	})
	return out
}
