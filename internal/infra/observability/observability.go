// Package observability holds the Prometheus metrics exported on /metrics
// and the HTTP middleware that feeds them.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Record Metrics ─────────────────────────────────────────────────────────

// RecordsCreated counts records written, by kind (animal, mating, sale, ...).
var RecordsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cerditos",
	Subsystem: "records",
	Name:      "created_total",
	Help:      "Total farm records written, by kind.",
}, []string{"kind"})

// ─── Report Metrics ─────────────────────────────────────────────────────────

// FinanceReports counts finance report runs by resulting status.
var FinanceReports = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cerditos",
	Subsystem: "finance",
	Name:      "reports_total",
	Help:      "Total finance reports generated, by status.",
}, []string{"status"})

// IRRIterations tracks how many solver steps a successful IRR took.
var IRRIterations = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "cerditos",
	Subsystem: "finance",
	Name:      "irr_iterations",
	Help:      "Root-finder iterations per solved IRR, by method.",
	Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 100},
}, []string{"method"})

// ReportDuration tracks report generation latency, including store reads.
var ReportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "cerditos",
	Subsystem: "reports",
	Name:      "duration_seconds",
	Help:      "Report generation latency in seconds, by report.",
	Buckets:   prometheus.DefBuckets,
}, []string{"report"})

// ─── Session Metrics ────────────────────────────────────────────────────────

// LoginAttempts counts login attempts by outcome.
var LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cerditos",
	Subsystem: "session",
	Name:      "login_attempts_total",
	Help:      "Total login attempts, by outcome.",
}, []string{"outcome"})

// ActiveSessions tracks sessions currently held in memory.
var ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "cerditos",
	Subsystem: "session",
	Name:      "active",
	Help:      "Number of unexpired sessions.",
})

// ─── HTTP Metrics ───────────────────────────────────────────────────────────

// HTTPRequestDuration tracks request latency by route pattern and status.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "cerditos",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// Since observes the elapsed time since start on a histogram child.
func Since(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}

// InstrumentHTTP records HTTPRequestDuration for every request.
// The route label is the chi pattern, so path parameters do not explode cardinality.
func InstrumentHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		Since(HTTPRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)), start)
	})
}
