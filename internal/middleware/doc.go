// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

/*
Package middleware provides the HTTP middleware that feeds the log pipeline.

Key Components:

  - RequestID: binds a request id (upstream X-Request-ID or UUID v4) to the
    request context and echoes it in the response
  - HTTPLogger: one pipeline entry per request, level derived from the
    response status, domain "http"
  - PrometheusMetrics: request count, latency and in-flight gauges labelled
    by chi route pattern

Middleware Stack:

The router mounts them in this order:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.HTTPLogger(pipe, middleware.HTTPLogOptions{}))
	r.Use(chimiddleware.Recoverer)

Recoverer sits inside HTTPLogger so a panicking handler is still logged as a
500 with its request id.

Entry shape:

	{"level":"info","msg":"http request","timestamp":1772400000000,
	 "domain":"http","requestId":"...","duration":3,"method":"GET",
	 "status":200,"tsDate":"2026-03-01","tsTime":"21:20:00","url":"/api/v1/health/live"}

tsDate is the UTC date; tsTime is the server's local wall-clock time.

The pipeline is constructed before the router and passed to HTTPLogger, so
there is no late injection step. A nil sink turns HTTPLogger into a
pass-through after one meta-log warning; a disabled pipeline skips the
request context and the entry entirely.
*/
package middleware
