// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/logpipe/internal/logging"
	"github.com/tomtom215/logpipe/internal/logpipe"
)

// HTTPDomain tags every request entry so named transports filtering on it
// receive request logs without extra configuration.
const HTTPDomain = "http"

// EntrySink is the part of the log pipeline the request logger needs.
// *logpipe.Logger satisfies it.
type EntrySink interface {
	Enabled() bool
	Log(ctx context.Context, e logpipe.Entry)
}

// InjectableField names an optional request attribute copied into the entry.
type InjectableField string

const (
	InjectMethod    InjectableField = "method"
	InjectURL       InjectableField = "url"
	InjectIP        InjectableField = "ip"
	InjectUserAgent InjectableField = "userAgent"
	InjectUserID    InjectableField = "userId"
)

// DefaultInject is used when HTTPLogOptions.Inject is nil.
var DefaultInject = []InjectableField{InjectMethod, InjectURL}

// HTTPLogOptions configures HTTPLogger.
type HTTPLogOptions struct {
	Inject []InjectableField

	// ResolveRequestID overrides the default: context id, then a well formed
	// X-Request-ID header, then a UUID v4.
	ResolveRequestID func(*http.Request) string

	// ResolveUserID supplies the userId field. Without it userId is omitted.
	ResolveUserID func(*http.Request) string

	// Meta receives the warning emitted for a nil sink.
	Meta *logpipe.Meta

	Now func() time.Time
}

// HTTPLogger emits one entry per request after the handler returns. The rest
// of the chain runs with the request id bound to its context, so anything
// logged while serving the request carries the same id.
func HTTPLogger(sink EntrySink, opts HTTPLogOptions) func(http.Handler) http.Handler {
	if sink == nil {
		opts.Meta.Warn("http logger created without a log sink, request logging disabled", nil)
		return func(next http.Handler) http.Handler { return next }
	}

	inject := opts.Inject
	if inject == nil {
		inject = DefaultInject
	}
	resolveID := opts.ResolveRequestID
	if resolveID == nil {
		resolveID = resolveRequestID
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sink.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			requestID := resolveID(r)
			w.Header().Set(RequestIDHeader, requestID)
			start := now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			logging.RunWithContext(r.Context(), logging.RequestContext{RequestID: requestID}, func(ctx context.Context) {
				r = r.WithContext(ctx)
				next.ServeHTTP(ww, r)
			})

			end := now()
			sink.Log(r.Context(), buildHTTPEntry(r, statusOf(ww), requestID, start, end, inject, opts.ResolveUserID))
		})
	}
}

// levelForStatus maps a response status to an entry level.
func levelForStatus(status int) logpipe.Level {
	switch {
	case status >= 500:
		return logpipe.ErrorLevel
	case status >= 400:
		return logpipe.WarnLevel
	default:
		return logpipe.InfoLevel
	}
}

func buildHTTPEntry(r *http.Request, status int, requestID string, start, end time.Time, inject []InjectableField, resolveUserID func(*http.Request) string) logpipe.Entry {
	fields := map[string]any{
		"tsDate":   end.UTC().Format(time.DateOnly),
		"tsTime":   end.Format(time.TimeOnly),
		"status":   status,
		"duration": end.Sub(start).Milliseconds(),
	}

	for _, field := range inject {
		switch field {
		case InjectMethod:
			fields["method"] = r.Method
		case InjectURL:
			fields["url"] = r.URL.RequestURI()
		case InjectIP:
			fields["ip"] = clientIP(r)
		case InjectUserAgent:
			if ua := r.UserAgent(); ua != "" {
				fields["userAgent"] = ua
			}
		case InjectUserID:
			if resolveUserID != nil {
				if id := resolveUserID(r); id != "" {
					fields["userId"] = id
				}
			}
		}
	}

	return logpipe.Entry{
		Level:     levelForStatus(status),
		Msg:       "http request",
		Timestamp: end.UnixMilli(),
		Domain:    []string{HTTPDomain},
		RequestID: requestID,
		Fields:    fields,
	}
}

// clientIP strips the port from RemoteAddr. chi's RealIP middleware, when
// mounted earlier, has already replaced RemoteAddr with the forwarded address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
