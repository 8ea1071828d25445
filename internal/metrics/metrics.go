// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Buffer Metrics
	LogEntriesEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logpipe_entries_enqueued_total",
			Help: "Total number of log entries accepted into the buffer",
		},
		[]string{"level"},
	)

	LogEntriesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logpipe_entries_dropped_total",
			Help: "Total number of log entries dropped because the buffer was full",
		},
	)

	LogQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "logpipe_queue_length",
			Help: "Current number of entries waiting in the buffer",
		},
	)

	LogDrainBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "logpipe_drain_batch_size",
			Help:    "Number of entries taken from the buffer per drain iteration",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000, 5000},
		},
	)

	LogFlushDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "logpipe_flush_duration_seconds",
			Help:    "Duration of buffer flushes in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"result"}, // "ok", "timeout"
	)

	// Transport Metrics
	LogTransportWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logpipe_transport_writes_total",
			Help: "Total number of entries written by each transport",
		},
		[]string{"transport"},
	)

	LogTransportFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logpipe_transport_failures_total",
			Help: "Total number of failed or rejected transport writes",
		},
		[]string{"transport"},
	)

	// Rotation Metrics
	LogRotationOverflows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logpipe_rotation_overflow_paths_total",
			Help: "Total number of resolved paths carrying an overflow suffix",
		},
		[]string{"prefix"},
	)

	LogRotationExhausted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logpipe_rotation_exhausted_total",
			Help: "Total number of resolutions that hit the overflow ceiling",
		},
		[]string{"prefix"},
	)

	// Meta-logger Metrics
	LogMetaEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logpipe_meta_events_total",
			Help: "Total number of internal pipeline failures reported to the meta-log",
		},
		[]string{"level"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	LogPullerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logpipe_puller_requests_total",
			Help: "Total number of log puller requests by outcome",
		},
		[]string{"operation", "outcome"}, // operation: "list", "download"
	)
)

// RecordEnqueue records one accepted entry and the resulting queue length.
func RecordEnqueue(level string, queueLength int) {
	LogEntriesEnqueued.WithLabelValues(level).Inc()
	LogQueueLength.Set(float64(queueLength))
}

// RecordDrop records one dropped entry.
func RecordDrop() {
	LogEntriesDropped.Inc()
}

// RecordDrainBatch records one drain iteration and the queue length left behind.
func RecordDrainBatch(size, queueLength int) {
	LogDrainBatchSize.Observe(float64(size))
	LogQueueLength.Set(float64(queueLength))
}

// RecordFlush records a flush outcome.
func RecordFlush(duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "timeout"
	}
	LogFlushDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordTransportWrite records the outcome of one transport write.
func RecordTransportWrite(transport string, err error) {
	if err != nil {
		LogTransportFailures.WithLabelValues(transport).Inc()
		return
	}
	LogTransportWrites.WithLabelValues(transport).Inc()
}

// RecordRotation records a resolved path's overflow index.
func RecordRotation(prefix string, index int, exhausted bool) {
	if index > 0 {
		LogRotationOverflows.WithLabelValues(prefix).Inc()
	}
	if exhausted {
		LogRotationExhausted.WithLabelValues(prefix).Inc()
	}
}

// RecordMetaEvent records one meta-log line.
func RecordMetaEvent(level string) {
	LogMetaEvents.WithLabelValues(level).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordLogPull records a log puller request outcome.
func RecordLogPull(operation, outcome string) {
	LogPullerRequests.WithLabelValues(operation, outcome).Inc()
}
