package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewbox_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "viewbox_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"method", "path"},
	)

	regionCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewbox_region_cache_total",
			Help: "Visible-region cache lookups by outcome.",
		},
		[]string{"outcome"},
	)

	unprojectableTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viewbox_unprojectable_viewports_total",
			Help: "Requests rejected because the viewport missed the ground plane.",
		},
	)
)

func observeRequest(method, path string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
