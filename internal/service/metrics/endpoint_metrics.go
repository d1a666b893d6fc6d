package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EndpointLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cryptopulse",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of API endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	EndpointErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cryptopulse",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Errors by API endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	NarrativeFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cryptopulse",
			Name:      "narrative_fallback_total",
			Help:      "Reports rendered from the local template instead of the text provider",
		},
		[]string{"reason"},
	)

	AudioCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cryptopulse",
			Subsystem: "audio",
			Name:      "cache_hits_total",
			Help:      "Speech requests served from the audio cache",
		},
	)
)

// Register adds the vectors to the default registry. Safe to call repeatedly.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(EndpointLatency, EndpointErrors, NarrativeFallbacks, AudioCacheHits)
	})
}
