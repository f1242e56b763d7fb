package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch outcomes.
const (
	OutcomeHandled  = "handled"
	OutcomeDeclined = "declined"
	OutcomeNoMatch  = "no_match"
	OutcomePanic    = "panic"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eoclient",
			Subsystem: "debug_http",
			Name:      "requests_total",
			Help:      "Total debug HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eoclient",
			Subsystem: "debug_http",
			Name:      "request_duration_seconds",
			Help:      "Debug HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	decodeMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "eoclient",
			Subsystem: "codec",
			Name:      "decode_misses_total",
			Help:      "Inbound envelopes no schema recognized.",
		},
	)
	dispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eoclient",
			Subsystem: "dispatch",
			Name:      "packets_total",
			Help:      "Dequeued packets by family, action and outcome.",
		},
		[]string{"family", "action", "outcome"},
	)
	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "eoclient",
			Subsystem: "dispatch",
			Name:      "queue_depth",
			Help:      "Packets waiting for dispatch after the last tick.",
		},
	)
	tickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "eoclient",
			Subsystem: "dispatch",
			Name:      "tick_duration_seconds",
			Help:      "Time spent draining the queue per tick.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, decodeMisses, dispatched, queueDepth, tickDuration)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func RecordDecodeMiss() {
	decodeMisses.Inc()
}

func RecordDispatch(family, action, outcome string) {
	dispatched.WithLabelValues(family, action, outcome).Inc()
}

func RecordTick(depth int, duration time.Duration) {
	queueDepth.Set(float64(depth))
	tickDuration.Observe(duration.Seconds())
}
