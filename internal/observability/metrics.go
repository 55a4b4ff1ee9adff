package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	RegistrationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "registration_duration_seconds",
			Help:    "Time spent in the registration workflow",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	WebhookRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Outbound webhook calls by webhook, target and status",
		},
		[]string{"webhook", "target", "status"},
	)

	SpotsLeft = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "event_spots_left",
			Help: "Seats still available per event",
		},
		[]string{"event_id"},
	)
)
