package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resorthub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	cartOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resorthub",
			Name:      "cart_operations_total",
			Help:      "Cart mutations by operation (add, remove, update, clear).",
		},
		[]string{"operation"},
	)

	checkouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "resorthub",
			Name:      "checkouts_total",
			Help:      "Completed checkouts.",
		},
	)

	modifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resorthub",
			Name:      "modification_sessions_total",
			Help:      "Modification session transitions by outcome (started, completed, cancelled).",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, cartOperations, checkouts, modifications)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncCartOp increments the counter for a cart operation label.
func IncCartOp(operation string) {
	cartOperations.WithLabelValues(operation).Inc()
}

// IncCheckout increments the checkout counter.
func IncCheckout() {
	checkouts.Inc()
}

// IncModification increments the counter for a modification outcome label.
func IncModification(outcome string) {
	modifications.WithLabelValues(outcome).Inc()
}
