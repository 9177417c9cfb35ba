package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// CheckoutsTotal counts checkout attempts by result
	// (ok, invalid_request, invalid_tour, invalid_amount, configuration, store).
	CheckoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "checkout",
			Name:      "requests_total",
			Help:      "Total number of checkout attempts",
		},
		[]string{"result"},
	)

	CallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "callback",
			Name:      "notifications_total",
			Help:      "Total number of gateway notifications by source and outcome",
		},
		[]string{"source", "verified", "outcome"},
	)

	OrderTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "order",
			Name:      "transitions_total",
			Help:      "Order status transitions applied by callbacks",
		},
		[]string{"to"},
	)

	ReceiptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "receipt",
			Name:      "sent_total",
			Help:      "Receipt side effects by sender and status",
		},
		[]string{"sender", "status"},
	)

	ReceiptDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "receipt",
			Name:      "send_duration_seconds",
			Help:      "Receipt side effect duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"sender"},
	)
)

func init() {
	Registry.MustRegister(CheckoutsTotal, CallbacksTotal, OrderTransitionsTotal, ReceiptsTotal, ReceiptDuration)
}
