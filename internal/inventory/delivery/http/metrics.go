package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockwise_requests_total",
			Help: "Total number of requests to the inventory service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockwise_request_duration_seconds",
			Help:    "Duration of inventory service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	productGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stockwise_products_total",
			Help: "Current number of registered products",
		},
	)
)

func init() {
	prometheus.MustRegister(requestCounter, requestLatency, productGauge)
}

// MetricsMiddleware records request counts and latencies per route
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}

		requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(ww.statusCode)).Inc()
		requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}
