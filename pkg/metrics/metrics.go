package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes
const (
	OutcomeAccepted      = "accepted"
	OutcomeInvalid       = "validation_failed"
	OutcomeUploadFailed  = "upload_failed"
	OutcomePersistFailed = "persist_failed"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Total number of submissions by category and outcome",
		},
		[]string{"kind", "outcome"},
	)

	IntakeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_duration_seconds",
			Help:    "Duration of submission intake in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	AttachmentBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_attachment_bytes",
			Help:    "Size of uploaded attachments in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 7),
		},
		[]string{"bucket"},
	)

	StatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_status_changes_total",
			Help: "Total number of status changes by category and new status",
		},
		[]string{"kind", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
