// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors plus Go runtime and process metrics.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carwash_payouts",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "carwash_payouts",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	paymentRequestTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carwash_payouts",
			Subsystem: "payment_requests",
			Name:      "transitions_total",
			Help:      "Payment request operations by action and outcome.",
		},
		[]string{"action", "outcome"},
	)

	storeConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carwash_payouts",
			Subsystem: "store",
			Name:      "conflicts_total",
			Help:      "Writes that lost an optimistic concurrency race, by operation.",
		},
		[]string{"operation"},
	)

	integrityFaults = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "carwash_payouts",
			Subsystem: "custody",
			Name:      "integrity_faults_total",
			Help:      "Custody records found with inconsistent stored quantities.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		paymentRequestTransitions,
		storeConflicts,
		integrityFaults,
	)
}

// Handler exposes Registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records count and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// ObservePaymentRequest counts one payment request operation. outcome is "ok"
// or an error code.
func ObservePaymentRequest(action, outcome string) {
	paymentRequestTransitions.WithLabelValues(action, outcome).Inc()
}

func ObserveConflict(operation string) {
	storeConflicts.WithLabelValues(operation).Inc()
}

func ObserveIntegrityFault() {
	integrityFaults.Inc()
}
