// Package metrics defines Prometheus metrics for apple-stock-notifier.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "asn"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last /healthz probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last /readyz probe succeeded, 0 otherwise.",
	})
)

// Probe metrics.
var (
	ProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "probes_total",
		Help:      "Total stock probes by outcome (available, unavailable, failed, sentinel).",
	}, []string{"outcome"})

	ProbeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "probe_duration_seconds",
		Help:      "Duration of stock probe HTTP calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Sweep metrics.
var (
	SweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweeps_total",
		Help:      "Total number of completed sweeps.",
	})

	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sweep_duration_seconds",
		Help:      "Duration of sweeps in seconds.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	})

	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "availability_transitions_total",
		Help:      "Total availability transitions by target state.",
	}, []string{"to"})

	WatchesAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "watches_available",
		Help:      "Number of watches currently recorded as available.",
	})

	SchedulerNextSweepTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_next_sweep_timestamp",
		Help:      "Unix timestamp of the next scheduled sweep.",
	})
)

// Bot metrics.
var (
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_total",
		Help:      "Total inbound Telegram updates by kind (message, callback, ignored).",
	}, []string{"kind"})

	UpdatePollErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "update_poll_errors_total",
		Help:      "Total failed getUpdates calls.",
	})

	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total password attempts by result (granted, rejected).",
	}, []string{"result"})
)

// State metrics.
var (
	WatchesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "watches_total",
		Help:      "Number of configured watches.",
	})

	AuthorizedUsersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "authorized_users_total",
		Help:      "Number of authorized users.",
	})

	PersistFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persist_failures_total",
		Help:      "Total failed writes to the persistence backend.",
	})
)

// Alert metrics.
var (
	AlertsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_sent_total",
		Help:      "Total stock alerts delivered by channel.",
	}, []string{"channel"})

	NotificationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total notification send failures by channel.",
	}, []string{"channel"})
)
