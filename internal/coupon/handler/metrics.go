package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the coupon service Prometheus collectors
type Metrics struct {
	redemptions   *prometheus.CounterVec
	couponsIssued prometheus.Counter
	redeemLatency prometheus.Histogram
}

// NewMetrics registers and returns the coupon service metrics
func NewMetrics() *Metrics {
	redemptions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupon_service_redemptions_total",
			Help: "Redemption attempts by outcome",
		},
		[]string{"outcome"}, // redeemed, invalid, error
	)

	couponsIssued := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coupon_service_coupons_issued_total",
			Help: "Total coupons generated",
		},
	)

	redeemLatency := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coupon_service_redemption_duration_seconds",
			Help:    "Duration of redemption operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	prometheus.MustRegister(redemptions)
	prometheus.MustRegister(couponsIssued)
	prometheus.MustRegister(redeemLatency)

	return &Metrics{
		redemptions:   redemptions,
		couponsIssued: couponsIssued,
		redeemLatency: redeemLatency,
	}
}
