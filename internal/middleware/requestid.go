// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/tomtom215/logpipe/internal/logging"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// upstreamIDPattern bounds ids accepted from clients and proxies so they
// cannot inject arbitrary text into log lines.
var upstreamIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,128}$`)

// RequestID binds a request id to the request context and echoes it in the
// response header. An id from an upstream proxy is reused when it is well
// formed; otherwise a UUID v4 is generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := resolveRequestID(r)
		w.Header().Set(RequestIDHeader, requestID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	return logging.RequestIDFromContext(ctx)
}

// resolveRequestID prefers an id already bound to the context, then a well
// formed X-Request-ID header, then a fresh UUID.
func resolveRequestID(r *http.Request) string {
	if id := logging.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	if id := r.Header.Get(RequestIDHeader); upstreamIDPattern.MatchString(id) {
		return id
	}
	return logging.GenerateRequestID()
}
