package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the payment service Prometheus collectors
type Metrics struct {
	settlements       *prometheus.CounterVec
	webhookEvents     *prometheus.CounterVec
	signatureFailures *prometheus.CounterVec
	settleLatency     *prometheus.HistogramVec
}

// NewMetrics registers and returns the payment service metrics
func NewMetrics() *Metrics {
	settlements := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_service_settlements_total",
			Help: "Total settlements by channel and outcome",
		},
		[]string{"channel", "outcome"}, // channel: verify|webhook|claim_free, outcome: settled|already_processed|failed
	)

	webhookEvents := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_service_webhook_events_total",
			Help: "Webhook deliveries by event disposition",
		},
		[]string{"disposition"}, // settled, duplicate, ignored, defect, rejected
	)

	signatureFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_service_signature_failures_total",
			Help: "Signature verification failures by channel",
		},
		[]string{"channel"},
	)

	settleLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_service_settlement_duration_seconds",
			Help:    "Duration of settlement operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"channel"},
	)

	prometheus.MustRegister(settlements)
	prometheus.MustRegister(webhookEvents)
	prometheus.MustRegister(signatureFailures)
	prometheus.MustRegister(settleLatency)

	return &Metrics{
		settlements:       settlements,
		webhookEvents:     webhookEvents,
		signatureFailures: signatureFailures,
		settleLatency:     settleLatency,
	}
}
