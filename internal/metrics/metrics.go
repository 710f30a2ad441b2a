package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iovox_sms_sends_total",
			Help: "Send attempts by outcome and environment",
		},
		[]string{"outcome", "environment"}, // sent|invalid|rejected|failed , sandbox|production
	)

	SendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iovox_sms_send_duration_seconds",
			Help:    "Latency of the sendSms call, validation excluded",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"environment"},
	)
)

// MustRegister registers the collectors on r.
func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		SendsTotal,
		SendDuration,
	)
}
