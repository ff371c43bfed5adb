// Package observability exposes the Prometheus metrics the teacher's
// Connect-RPC interceptor used to populate; pkg/middleware.Metrics() now
// drives these vectors from plain net/http handlers instead.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total number of HTTP requests by path and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingestion_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "status"},
	)

	// RequestDuration tracks request duration by path.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingestion_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	// ActiveRequests tracks currently in-flight requests by path.
	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ingestion_http_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"path"},
	)

	// IngestResultsTotal tracks pipeline outcomes, labeled by source and
	// terminal ResultStatus.
	IngestResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingestion_results_total",
			Help: "Total ingestion results by source and status",
		},
		[]string{"source", "status"},
	)
)
