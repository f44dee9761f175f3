// Package metrics holds the Prometheus collectors for webhook intake and
// user sync.  They register on the default registry, served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync outcomes used as the "outcome" label.
const (
	OutcomeOK       = "ok"       // record written or deleted
	OutcomeSkipped  = "skipped"  // event type not handled
	OutcomeRejected = "rejected" // terminal failure, not retried
	OutcomeFailed   = "failed"   // retryable failure surfaced to the sender
)

var (
	WebhookRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebooking_webhook_requests_total",
			Help: "Webhook deliveries by route and response status",
		},
		[]string{"route", "status"},
	)

	SyncEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebooking_user_sync_events_total",
			Help: "User sync events processed, by event type and outcome",
		},
		[]string{"event", "outcome"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviebooking_user_sync_duration_seconds",
			Help:    "Time spent processing one user sync event",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event"},
	)

	SyncRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebooking_user_sync_retries_total",
			Help: "In-process retries of identity API calls and store writes",
		},
		[]string{"op"},
	)

	QueueDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebooking_queue_deliveries_total",
			Help: "User event deliveries consumed from RabbitMQ, by disposition",
		},
		[]string{"disposition"},
	)
)
