// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AttendanceCommitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_commits_total",
			Help: "Total number of committed attendance days",
		},
		[]string{"strict"},
	)

	ScanEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "attendance_scan_events_total",
			Help: "Total number of simulated self-check-in scans",
		},
	)

	AIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of generative AI calls",
		},
		[]string{"kind", "outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
