package utils

import (
	"time"

	"calgrid/src-server/store"
)

// Latencies in microseconds, consumed by the metric package.
type MetricChans struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
}

func NewMetricChans() *MetricChans {
	return &MetricChans{
		DatabaseRead:  make(chan float64, 64),
		DatabaseWrite: make(chan float64, 64),
	}
}

// Observer for store.WithObserver. Samples are dropped when nobody reads
// the channels so a query never blocks on metrics.
func (m *MetricChans) Observe(kind store.OpKind, latency time.Duration) {
	ch := m.DatabaseRead
	if kind == store.OpWrite {
		ch = m.DatabaseWrite
	}
	select {
	case ch <- float64(latency.Microseconds()):
	default:
	}
}
