package spool

import "github.com/prometheus/client_golang/prometheus"

// Metrics collects prometheus metrics for one or more Buffers. A single
// Metrics value is meant to be shared by every Buffer created for the same
// purpose, so the counters aggregate across instances. A nil *Metrics is
// valid and disables collection.
type Metrics struct {
	writes          prometheus.Counter
	writtenBytes    prometheus.Counter
	spills          prometheus.Counter
	spilledBytes    prometheus.Counter
	limitRejections prometheus.Counter
	memoryBytes     prometheus.Gauge
}

// NewMetrics builds and registers spool metrics on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spool",
			Name:      "writes_total",
			Help:      "Total number of accepted writes.",
		}),
		writtenBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spool",
			Name:      "written_bytes_total",
			Help:      "Total number of bytes accepted by writes.",
		}),
		spills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spool",
			Name:      "spills_total",
			Help:      "Total number of memory-to-disk spill events.",
		}),
		spilledBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spool",
			Name:      "spilled_bytes_total",
			Help:      "Total number of bytes written to spill files.",
		}),
		limitRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spool",
			Name:      "limit_rejections_total",
			Help:      "Total number of writes rejected by the buffer limit.",
		}),
		memoryBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spool",
			Name:      "memory_bytes",
			Help:      "Bytes currently buffered in memory across all buffers.",
		}),
	}
	reg.MustRegister(m.writes, m.writtenBytes, m.spills, m.spilledBytes, m.limitRejections, m.memoryBytes)
	return m
}

// recordWrite notes an accepted write of n bytes. toMemory distinguishes
// bytes appended to the memory buffer from bytes written straight to the
// spill file.
func (m *Metrics) recordWrite(n int, toMemory bool) {
	if m == nil {
		return
	}
	m.writes.Inc()
	m.writtenBytes.Add(float64(n))
	if toMemory {
		m.memoryBytes.Add(float64(n))
	} else {
		m.spilledBytes.Add(float64(n))
	}
}

// recordSpill notes memBytes moving from the memory buffer to a spill file.
func (m *Metrics) recordSpill(memBytes int) {
	if m == nil {
		return
	}
	m.spills.Inc()
	m.memoryBytes.Sub(float64(memBytes))
	m.spilledBytes.Add(float64(memBytes))
}

// recordRejection notes a write rejected by the buffer limit.
func (m *Metrics) recordRejection() {
	if m == nil {
		return
	}
	m.limitRejections.Inc()
}

// recordRelease notes memBytes leaving the memory buffer on Close.
func (m *Metrics) recordRelease(memBytes int) {
	if m == nil {
		return
	}
	m.memoryBytes.Sub(float64(memBytes))
}
