package fxlob

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fxlob",
		Subsystem: "replay",
		Name:      "orders_ingested_total",
		Help:      "Total number of orders ingested into the book",
	})

	bookDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fxlob",
		Subsystem: "replay",
		Name:      "book_depth",
		Help:      "Resting orders currently on each side of the book",
	}, []string{"side"})
)

// Metrics exposes replay progress.
type Metrics struct {
	count int64 // Used with atomic
}

// Count returns the number of orders ingested so far.
func (m *Metrics) Count() int64 {
	return atomic.LoadInt64(&m.count)
}

func (m *Metrics) incOrders() {
	atomic.AddInt64(&m.count, 1)
	ordersIngested.Inc()
}
