package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FanOutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_match_fanouts_total",
			Help: "Total number of job-match fan-outs run, by trigger",
		},
		[]string{"trigger"},
	)

	FanOutDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobportal_match_fanout_duration_seconds",
			Help:    "Duration of a job-match fan-out in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"trigger"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_notifications_created_total",
			Help: "Total number of job-match notifications created",
		},
		[]string{"trigger"},
	)

	MatchCandidateFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_match_candidate_failures_total",
			Help: "Total number of candidates whose notification step failed",
		},
		[]string{"trigger"},
	)

	SweepDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_sweep_deleted_total",
			Help: "Total number of records removed by retention sweeps",
		},
		[]string{"kind"},
	)

	SweepFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_sweep_failures_total",
			Help: "Total number of failed retention sweeps",
		},
		[]string{"kind"},
	)

	QueueTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_queue_tasks_total",
			Help: "Background tasks by outcome",
		},
		[]string{"outcome"},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobportal_queue_depth",
			Help: "Number of background tasks waiting for a worker",
		},
	)

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobportal_ws_connections",
			Help: "Number of open notification websocket sessions",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
)
