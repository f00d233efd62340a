package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "assoc_backend"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	ledgerPostings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "postings_total",
			Help:      "Total number of ledger transactions posted.",
		},
		[]string{"type", "category"},
	)

	ledgerAmount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "amount_total",
			Help:      "Total money moved through the ledger.",
		},
		[]string{"type"},
	)

	rsvpToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "rsvp_toggles_total",
			Help:      "Total number of RSVP toggles.",
		},
		[]string{"action"},
	)

	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts.",
		},
		[]string{"outcome"},
	)

	maintenanceRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "maintenance",
			Name:      "job_runs_total",
			Help:      "Total number of maintenance job runs.",
		},
		[]string{"job", "success"},
	)

	maintenanceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "maintenance",
			Name:      "job_run_duration_seconds",
			Help:      "Duration of maintenance job runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"job"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		ledgerPostings,
		ledgerAmount,
		rsvpToggles,
		loginAttempts,
		maintenanceRuns,
		maintenanceDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted marks an in-flight request and returns the function that completes it.
func RequestStarted() func(method, route string, status int, duration time.Duration) {
	httpInFlight.Inc()
	return func(method, route string, status int, duration time.Duration) {
		httpInFlight.Dec()
		if route == "" {
			route = "unmatched"
		}
		method = strings.ToUpper(method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	}
}

// RecordLedgerPosting counts a committed ledger transaction.
func RecordLedgerPosting(txType, category string, amount decimal.Decimal) {
	if category == "" {
		category = "uncategorized"
	}
	ledgerPostings.WithLabelValues(txType, category).Inc()
	ledgerAmount.WithLabelValues(txType).Add(amount.Abs().InexactFloat64())
}

// RecordRSVPToggle counts an RSVP being added or removed.
func RecordRSVPToggle(attending bool) {
	action := "removed"
	if attending {
		action = "added"
	}
	rsvpToggles.WithLabelValues(action).Inc()
}

// RecordLoginAttempt counts a login attempt by outcome (success, invalid_credentials, inactive, error).
func RecordLoginAttempt(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}

// RecordMaintenanceRun records metrics for a scheduled maintenance job.
func RecordMaintenanceRun(job string, duration time.Duration, success bool) {
	maintenanceRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
	maintenanceDuration.WithLabelValues(job).Observe(duration.Seconds())
}
