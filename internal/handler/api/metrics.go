package api

import (
	"strconv"
	"time"

	"CryptoPulse/internal/service/metrics"
)

func observe(endpoint string, start time.Time) {
	metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func countError(endpoint string, status int) {
	metrics.EndpointErrors.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}
