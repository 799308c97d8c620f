package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records counters for the ordering engine operations.
type EngineMetrics struct {
	searches     *prometheus.CounterVec
	ordersPlaced prometheus.Counter
	orderValue   prometheus.Histogram
	cartOps      *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	searches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_searches_total",
		Help: "Catalog searches, labeled by whether they matched anything.",
	}, []string{"outcome"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Successfully placed orders.",
	})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_rupees",
		Help:    "Order totals in rupees.",
		Buckets: []float64{50, 100, 199, 300, 500, 1000},
	})
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	reg.MustRegister(searches, ordersPlaced, orderValue, cartOps)
	return &EngineMetrics{
		searches:     searches,
		ordersPlaced: ordersPlaced,
		orderValue:   orderValue,
		cartOps:      cartOps,
	}
}

// ObserveSearch records a search with a hit/miss outcome.
func (m *EngineMetrics) ObserveSearch(matched bool) {
	if m == nil || m.searches == nil {
		return
	}
	outcome := "miss"
	if matched {
		outcome = "hit"
	}
	m.searches.WithLabelValues(outcome).Inc()
}

// ObserveOrder records a placed order and its total.
func (m *EngineMetrics) ObserveOrder(total int) {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.orderValue.Observe(float64(total))
}

// ObserveCartOp counts a cart mutation by name.
func (m *EngineMetrics) ObserveCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	m.cartOps.WithLabelValues(op).Inc()
}
