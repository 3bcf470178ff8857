package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "supplierhub", Name: "http_requests_total", Help: "Inbound HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "supplierhub", Name: "http_request_duration_seconds",
			Help:    "Inbound HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	SupplierRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "supplierhub", Name: "supplier_requests_total", Help: "Outbound supplier requests."},
		[]string{"request", "status"},
	)
	SupplierLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "supplierhub", Name: "supplier_request_duration_seconds",
			Help:    "Outbound supplier request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"request"},
	)
	WalkRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "supplierhub", Name: "walk_records_total", Help: "Catalog records upserted by walks."},
		[]string{"platform"},
	)
	WalkFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "supplierhub", Name: "walk_failures_total", Help: "Non-fatal failures logged by walks."},
		[]string{"platform", "level"},
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, SupplierRequests, SupplierLatency, WalkRecords, WalkFailures)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// HTTPMiddleware observes every matched route. Unmatched requests are grouped
// under one label to keep cardinality flat.
func HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ObserveHTTP(route, c.Request.Method, c.Writer.Status(), time.Since(startTime))
	}
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveSupplier(request string, status int, dur time.Duration) {
	SupplierRequests.WithLabelValues(request, strconv.Itoa(status)).Inc()
	SupplierLatency.WithLabelValues(request).Observe(dur.Seconds())
}

func ObserveWalk(platform string, records int, failuresPerLevel map[string]int) {
	WalkRecords.WithLabelValues(platform).Add(float64(records))
	for level, count := range failuresPerLevel {
		WalkFailures.WithLabelValues(platform, level).Add(float64(count))
	}
}
