// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

/*
Package metrics provides Prometheus instrumentation for Logpipe.

All collectors are registered on the default registry through promauto and
exposed by the HTTP server at /metrics.

# Pipeline

  - logpipe_entries_enqueued_total{level}: entries accepted into the buffer
  - logpipe_entries_dropped_total: entries refused because the buffer was full
  - logpipe_queue_length: entries waiting to be drained
  - logpipe_drain_batch_size: entries taken per drain iteration
  - logpipe_flush_duration_seconds{result}: flush latency (ok, timeout)
  - logpipe_transport_writes_total{transport} / logpipe_transport_failures_total{transport}
  - logpipe_rotation_overflow_paths_total{prefix}, logpipe_rotation_exhausted_total{prefix}
  - logpipe_meta_events_total{level}: meta-log lines (warn, error)

# HTTP

  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}
  - logpipe_puller_requests_total{operation,outcome}

Labels are bounded: transport names and prefixes come from configuration,
endpoints are chi route patterns.
*/
package metrics
