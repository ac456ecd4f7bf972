package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "palmwine"

var (
	// HTTPRequestsTotal counts handled HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of handled HTTP requests",
		},
		[]string{"route", "status"},
	)

	// HTTPRequestDuration observes request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// OrdersCreated counts placed orders by payment method.
	OrdersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Number of placed orders",
		},
		[]string{"payment_method"},
	)

	// OrdersCancelled counts cancellations that released stock.
	OrdersCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_cancelled_total",
			Help:      "Number of cancelled orders",
		},
	)

	// StockRejections counts orders refused for lack of stock.
	StockRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_rejections_total",
			Help:      "Number of reservations refused for insufficient stock",
		},
	)

	// StockAvailable reports bottles left in the current period.
	StockAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stock_available_bottles",
			Help:      "Bottles available in the current stock period",
		},
	)

	// DiscountOutcomes counts discount validations and redemptions.
	DiscountOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_outcomes_total",
			Help:      "Discount validation and redemption outcomes",
		},
		[]string{"outcome"},
	)

	// PaymentReconciliations counts reconcile results.
	PaymentReconciliations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_reconciliations_total",
			Help:      "Payment reconciliation outcomes",
		},
		[]string{"outcome"},
	)

	// WebhookRejections counts webhook payloads with a bad signature.
	WebhookRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_signature_rejections_total",
			Help:      "Webhook payloads rejected for an invalid signature",
		},
	)

	// Notifications counts notification dispatch outcomes.
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification dispatch outcomes",
		},
		[]string{"outcome"},
	)
)
