package metrics

import "sync/atomic"

// MetricID identifies a specific counter slot.
type MetricID uint16

const (
	MetricResolveFound MetricID = iota
	MetricResolveSynthesized
	MetricLookupMiss
	MetricTokenIssued
	MetricTokenRetry
	MetricTokenExhausted
	MetricEligibilityPass
	MetricEligibilityFail
	MetricGateDenied
	// MetricIDCount is the number of counter slots; it must stay last.
	MetricIDCount
)

const cacheLineSize = 64

// paddedCounter keeps each slot on its own cache line so concurrent
// increments on different IDs never false-share.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Config controls metric collection. When Enabled is false every operation
// is a no-op and the write path costs a single branch.
type Config struct {
	Enabled bool
}

// Metrics holds the counter slots. Safe for concurrent use.
type Metrics struct {
	enabled  bool
	counters [MetricIDCount]paddedCounter
}

// Snapshot is a point-in-time deep copy of all counters.
type Snapshot struct {
	Counters map[MetricID]uint64
}

func New(cfg Config) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc atomically increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Add atomically adds delta to the counter for id.
func (m *Metrics) Add(id MetricID, delta uint64) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, delta)
}

// Value returns the current count for id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter into a fresh map. The result is detached
// from live counters and safe to hold across exporter scrapes.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{Counters: make(map[MetricID]uint64, MetricIDCount)}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		snap.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return snap
}
