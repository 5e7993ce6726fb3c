package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// ScoringRequests counts calls to the scoring service by operation
	// (predict, health) and outcome (success or a failure kind).
	ScoringRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_requests_total",
			Help: "Total number of requests sent to the scoring service",
		},
		[]string{"operation", "outcome"},
	)

	ScoringRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoring_request_duration_seconds",
			Help:    "Latency of scoring service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// ScoringBackendUp is 1 after a healthy check and 0 after a failed one.
	ScoringBackendUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoring_backend_up",
			Help: "Result of the last scoring service health check",
		},
	)

	PredictionsByRating = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_predictions_by_rating_total",
			Help: "Successful predictions partitioned by returned rating",
		},
		[]string{"rating"},
	)

	HTTPClientRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_requests_total",
			Help: "Outbound HTTP requests by host, method and status class",
		},
		[]string{"host", "method", "status"},
	)

	ConsoleRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_requests_total",
			Help: "Requests served by the web console",
		},
		[]string{"route", "method", "status"},
	)

	ConsoleRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "console_request_duration_seconds",
			Help: "Latency of web console requests in seconds",
		},
		[]string{"route"},
	)
)
