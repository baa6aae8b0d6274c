// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		ordersCreatedTotal,
		checkoutsTotal,
		orderTransitionsTotal,
	)
}

var (
	ordersCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders created, by item kind and whether a subscription made them free.",
		},
		[]string{"item_kind", "free"},
	)

	checkoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "Checkout attempts by outcome.",
		},
		[]string{"outcome"}, // 'settled_free', 'payment_instruction', 'rejected'
	)

	orderTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Admin order status changes.",
		},
		[]string{"to"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// -------- Order helpers --------

func IncOrderCreated(itemKind string, free bool) {
	f := "false"
	if free {
		f = "true"
	}
	ordersCreatedTotal.WithLabelValues(norm(itemKind), f).Inc()
}

func IncCheckout(outcome string) {
	checkoutsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncOrderTransition(to string) {
	orderTransitionsTotal.WithLabelValues(norm(to)).Inc()
}
