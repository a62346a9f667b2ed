package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(apiRequestLatencyMs) }

var apiRequestLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "practicum_request_latency_ms",
		Help:    "Practicum API request latency in milliseconds, by HTTP status or 'error'.",
		Buckets: []float64{25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 30000},
	},
	[]string{"status"},
)

func ObserveAPIRequest(status string, d time.Duration) {
	apiRequestLatencyMs.WithLabelValues(norm(status)).Observe(float64(d.Milliseconds()))
}
