// Package metrics holds the custom Prometheus collectors of the API. They register with the
// default registry on import and are served by the /metrics handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "opticash"

// LoansCreatedTotal counts loans created, by repayment frequency.
var LoansCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_created_total",
		Help:      "Total number of loans created, by frequency.",
	},
	[]string{"frequency"},
)

// PaymentsProcessedTotal counts committed payments. Replays are not included.
var PaymentsProcessedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_processed_total",
		Help:      "Total number of payments processed.",
	},
)

// PaymentsAmountTotal sums the amount of committed payments.
var PaymentsAmountTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_amount_total",
		Help:      "Sum of processed payment amounts.",
	},
)

// PaymentRejectionsTotal counts payments refused by a business rule.
// Label:
//   - reason: "invalid_installments", "amount_mismatch", "conflict", "inactive_user" or "other"
var PaymentRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_rejections_total",
		Help:      "Total number of rejected payments, by reason.",
	},
	[]string{"reason"},
)

// IdempotentReplaysTotal counts responses served from an earlier request.
// Label:
//   - source: "store" (payment looked up by key) or "cache" (response replayed from redis)
var IdempotentReplaysTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of idempotent replays, by source.",
	},
	[]string{"source"},
)
