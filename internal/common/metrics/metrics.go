// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IntakeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_requests_total",
			Help: "Total number of intake submissions by terminal outcome",
		},
		[]string{"outcome"},
	)

	IntakeRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_request_duration_seconds",
			Help:    "Duration of intake processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	StoreWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_store_writes_total",
			Help: "Total number of record store writes",
		},
		[]string{"driver", "result"},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_notifications_total",
			Help: "Total number of notification attempts per notifier",
		},
		[]string{"notifier", "delivered"},
	)

	NotificationsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_notifications_in_flight",
			Help: "Number of notifier calls currently running",
		},
	)
)
