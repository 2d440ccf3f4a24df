package status

import (
	"maps"
	"slices"
	"sync"
)

// MetricMap holds named metrics of one kind
// Callers cache the pointer returned by Get and update it without the map lock
type MetricMap[T any] struct {
	mu      sync.RWMutex
	metrics map[string]*T
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{metrics: map[string]*T{}}
}

// Get returns the metric named key, registering a zero value on first use
func (m *MetricMap[T]) Get(key string) *T {
	if v := m.lookup(key); v != nil {
		return v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.metrics[key]
	if !ok {
		v = new(T)
		m.metrics[key] = v
	}
	return v
}

func (m *MetricMap[T]) lookup(key string) *T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metrics[key]
}

func (m *MetricMap[T]) Has(key string) bool {
	return m.lookup(key) != nil
}

// Range visits metrics ordered by name
func (m *MetricMap[T]) Range(fn func(key string, v *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, key := range slices.Sorted(maps.Keys(m.metrics)) {
		fn(key, m.metrics[key])
	}
}

func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.metrics)
}
