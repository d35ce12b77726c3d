package observ

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_orders_total",
			Help: "Total create-order orchestrations by outcome code",
		},
		[]string{"code"},
	)

	orderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_order_duration_ms",
			Help:    "End-to-end create-order duration in ms",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600, 3200},
		},
		[]string{"code"},
	)

	userLookupAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_user_lookup_attempts_total",
			Help: "User directory lookup attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// OrderProcessed records one finished orchestration. An empty code means success.
func OrderProcessed(code string, elapsed time.Duration) {
	if code == "" {
		code = "success"
	}
	ordersTotal.WithLabelValues(code).Inc()
	orderDuration.WithLabelValues(code).Observe(float64(elapsed.Milliseconds()))
}

// UserLookupAttempt records one user-directory lookup attempt.
// Outcome is one of: ok, timeout, transient, canceled, rejected.
func UserLookupAttempt(outcome string) {
	userLookupAttempts.WithLabelValues(outcome).Inc()
}
