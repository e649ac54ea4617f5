package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics holds the counters and histograms of the payment flow.
// A nil *PaymentMetrics is valid and records nothing.
type PaymentMetrics struct {
	// Sessions
	OrdersCreatedTotal       prometheus.Counter
	OrdersCreatedAmountTotal prometheus.Counter
	SessionFailuresTotal     prometheus.CounterVec

	// Webhooks
	WebhooksTotal            prometheus.CounterVec
	IntegrityViolationsTotal prometheus.Counter
	OrderTransitionsTotal    prometheus.CounterVec
	OrderTransitionAmount    prometheus.CounterVec
	OrderTimeToFinalSeconds  prometheus.HistogramVec
	FulfillmentFailuresTotal prometheus.CounterVec
	OutboxDeliveriesTotal    prometheus.CounterVec

	// Gateway
	GatewayRequestDuration prometheus.HistogramVec
	GatewayErrorsTotal     prometheus.CounterVec

	// Sweeper
	SweptOrdersTotal prometheus.CounterVec

	// Promo codes
	PromoRedemptionsTotal prometheus.CounterVec
}

func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	factory := promauto.With(reg)
	return &PaymentMetrics{
		OrdersCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_orders_created_total",
				Help: "Orders persisted after a successful gateway Init",
			},
		),

		OrdersCreatedAmountTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_orders_created_amount_minor_total",
				Help: "Sum of created order amounts in minor units",
			},
		),

		SessionFailuresTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_session_failures_total",
				Help: "Payment session creation failures by error kind",
			},
			[]string{"kind"},
		),

		WebhooksTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_webhooks_total",
				Help: "Inbound gateway notifications by reconciliation outcome",
			},
			[]string{"status", "outcome"},
		),

		IntegrityViolationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_integrity_violations_total",
				Help: "Notifications rejected because amount or payment id did not match",
			},
		),

		OrderTransitionsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_order_transitions_total",
				Help: "Applied order status transitions",
			},
			[]string{"status", "source"},
		),

		OrderTransitionAmount: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_order_transition_amount_minor_total",
				Help: "Sum of amounts of finalized orders in minor units",
			},
			[]string{"status"},
		),

		OrderTimeToFinalSeconds: *factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_order_time_to_final_seconds",
				Help:    "Time from order creation to terminal status",
				Buckets: prometheus.ExponentialBuckets(5, 2, 14), // 5s .. ~11h
			},
			[]string{"status"},
		),

		FulfillmentFailuresTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_fulfillment_failures_total",
				Help: "Failed deliveries of order finalized events",
			},
			[]string{"notifier"},
		),

		OutboxDeliveriesTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_outbox_deliveries_total",
				Help: "Outbox delivery attempts of order finalized events",
			},
			[]string{"result"},
		),

		GatewayRequestDuration: *factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_gateway_request_duration_seconds",
				Help:    "Latency of acquiring gateway calls",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 9), // 50ms .. 12.8s
			},
			[]string{"endpoint"},
		),

		GatewayErrorsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_gateway_errors_total",
				Help: "Failed acquiring gateway calls by error kind",
			},
			[]string{"endpoint", "kind"},
		),

		SweptOrdersTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_swept_orders_total",
				Help: "Stale orders resolved by the sweeper",
			},
			[]string{"result"},
		),

		PromoRedemptionsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_promo_redemptions_total",
				Help: "Promo code redemption attempts",
			},
			[]string{"conference", "result"},
		),
	}
}

func (m *PaymentMetrics) RecordOrderCreated(amountMinor int64) {
	if m == nil {
		return
	}
	m.OrdersCreatedTotal.Inc()
	m.OrdersCreatedAmountTotal.Add(float64(amountMinor))
}

func (m *PaymentMetrics) RecordSessionFailure(kind string) {
	if m == nil {
		return
	}
	m.SessionFailuresTotal.WithLabelValues(kind).Inc()
}

func (m *PaymentMetrics) RecordWebhook(status, outcome string) {
	if m == nil {
		return
	}
	m.WebhooksTotal.WithLabelValues(status, outcome).Inc()
}

func (m *PaymentMetrics) RecordIntegrityViolation() {
	if m == nil {
		return
	}
	m.IntegrityViolationsTotal.Inc()
}

// RecordTransition counts an applied transition; source is "webhook" or "sweeper".
func (m *PaymentMetrics) RecordTransition(status, source string, amountMinor int64, createdAt time.Time) {
	if m == nil {
		return
	}
	m.OrderTransitionsTotal.WithLabelValues(status, source).Inc()
	m.OrderTransitionAmount.WithLabelValues(status).Add(float64(amountMinor))
	if !createdAt.IsZero() {
		m.OrderTimeToFinalSeconds.WithLabelValues(status).Observe(time.Since(createdAt).Seconds())
	}
}

func (m *PaymentMetrics) RecordFulfillmentFailure(notifier string) {
	if m == nil {
		return
	}
	m.FulfillmentFailuresTotal.WithLabelValues(notifier).Inc()
}

// RecordOutboxDelivery counts one delivery attempt; result is "sent" or "failed".
func (m *PaymentMetrics) RecordOutboxDelivery(result string) {
	if m == nil {
		return
	}
	m.OutboxDeliveriesTotal.WithLabelValues(result).Inc()
}

// ObserveGatewayCall records latency and, unless kind is "none", a failure.
func (m *PaymentMetrics) ObserveGatewayCall(endpoint string, duration time.Duration, kind string) {
	if m == nil {
		return
	}
	m.GatewayRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if kind != "none" {
		m.GatewayErrorsTotal.WithLabelValues(endpoint, kind).Inc()
	}
}

func (m *PaymentMetrics) RecordSwept(result string) {
	if m == nil {
		return
	}
	m.SweptOrdersTotal.WithLabelValues(result).Inc()
}

func (m *PaymentMetrics) RecordPromoRedemption(conference string, ok bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if ok {
		result = "redeemed"
	}
	m.PromoRedemptionsTotal.WithLabelValues(conference, result).Inc()
}
