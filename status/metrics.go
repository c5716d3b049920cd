// Package status holds process-wide counters and gauges for the HUD debug
// line and the log summary written on exit.
package status

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

// Gauge is an atomic float64; zero value reads 0
type Gauge struct {
	bits atomic.Uint64
}

// Set stores v
func (g *Gauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
}

// Get loads the current value
func (g *Gauge) Get() float64 {
	return math.Float64frombits(g.bits.Load())
}

// metricSet maps names to lazily created metrics
// Callers cache the returned pointer and update it without locking
type metricSet[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

func newMetricSet[T any]() *metricSet[T] {
	return &metricSet[T]{items: make(map[string]*T)}
}

func (m *metricSet[T]) get(name string) *T {
	m.mu.RLock()
	ptr, ok := m.items[name]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok := m.items[name]; ok {
		return ptr
	}
	ptr = new(T)
	m.items[name] = ptr
	return ptr
}

// each visits metrics in sorted name order
func (m *metricSet[T]) each(fn func(name string, ptr *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.items))
	for k := range m.items {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fn(k, m.items[k])
	}
}

// Registry is the metrics facade
type Registry struct {
	counters *metricSet[atomic.Int64]
	gauges   *metricSet[Gauge]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		counters: newMetricSet[atomic.Int64](),
		gauges:   newMetricSet[Gauge](),
	}
}

// Counter returns the named counter, creating it on first use
func (r *Registry) Counter(name string) *atomic.Int64 {
	return r.counters.get(name)
}

// Gauge returns the named gauge, creating it on first use
func (r *Registry) Gauge(name string) *Gauge {
	return r.gauges.get(name)
}

// Snapshot copies every metric into a flat map, counters as float64
func (r *Registry) Snapshot() map[string]float64 {
	out := make(map[string]float64)
	r.counters.each(func(name string, c *atomic.Int64) {
		out[name] = float64(c.Load())
	})
	r.gauges.each(func(name string, g *Gauge) {
		out[name] = g.Get()
	})
	return out
}

// Names returns all metric names, counters first, each group sorted
func (r *Registry) Names() []string {
	var names []string
	r.counters.each(func(name string, _ *atomic.Int64) { names = append(names, name) })
	r.gauges.each(func(name string, _ *Gauge) { names = append(names, name) })
	return names
}

// Default is the registry used when a component is not given one
var Default = NewRegistry()
