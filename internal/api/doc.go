// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

/*
Package api exposes the operator HTTP surface of the log pipeline.

Endpoints:

	GET /api/v1/health/live               liveness probe
	GET /api/v1/logs/stats                buffer queue length, drop count, active transports
	GET /api/v1/logs/files                *.log files in the log directory (X-Pull-Secret)
	GET /api/v1/logs/files/{filename}     stream one file as text/plain (X-Pull-Secret)
	GET /metrics                          Prometheus metrics

JSON endpoints use the APIResponse envelope:

	{"success":true,"data":[{"name":"error-2026-03-01.log","sizeKb":12}],
	 "meta":{"request_id":"...","timestamp":"...","count":1}}

Log puller rules:

  - The X-Pull-Secret header must equal the configured LOG_PULL_SECRET
    (constant-time comparison). Without a configured secret both endpoints
    always answer 401.
  - File names must match ^[\w\-~.]+\.log$ (400 otherwise); a missing file is
    a 404.
  - logger-meta.log is omitted from the listing.

The /api/v1/logs routes are rate limited per client IP with go-chi/httprate;
CORS is handled by go-chi/cors.
*/
package api
