package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stewardpro",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stewardpro",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	gatewayCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stewardpro",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Outbound SMS and mobile-money gateway calls.",
		},
		[]string{"gateway", "success"},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stewardpro",
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Background task and scheduled job executions.",
		},
		[]string{"job", "success"},
	)

	budgetSpend = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stewardpro",
			Subsystem: "budget",
			Name:      "spend_adjustments_total",
			Help:      "Budget spent-amount adjustments from expense submit and cancel.",
		},
		[]string{"direction"},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, gatewayCalls, jobRuns, budgetSpend)
}

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one handled request.
func ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RecordGatewayCall counts an SMS or mobile-money call.
func RecordGatewayCall(gateway string, success bool) {
	gatewayCalls.WithLabelValues(gateway, strconv.FormatBool(success)).Inc()
}

// RecordJobRun counts a queued task or cron run.
func RecordJobRun(job string, success bool) {
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
}

// RecordBudgetSpend counts a spend adjustment ("submit" or "cancel").
func RecordBudgetSpend(direction string) {
	budgetSpend.WithLabelValues(direction).Inc()
}
