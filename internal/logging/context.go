// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	// requestContextKey carries a RequestContext.
	requestContextKey contextKey = "request_context"

	// loggerKey carries a zerolog.Logger.
	loggerKey contextKey = "logger"
)

// RequestContext is the ambient state of one logical request. Everything the
// request spawns while holding the derived context sees the same value.
type RequestContext struct {
	RequestID string
}

// GenerateRequestID returns a random UUID v4.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestContext binds rc to a child of ctx.
func ContextWithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// ContextWithRequestID is shorthand for binding a RequestContext with only an id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return ContextWithRequestContext(ctx, RequestContext{RequestID: id})
}

// RunWithContext runs fn with rc bound to a context derived from ctx.
// Bindings made by other requests are never visible to fn, and nested calls
// shadow the outer binding only inside their own fn.
//
//	logging.RunWithContext(r.Context(), logging.RequestContext{RequestID: id}, func(ctx context.Context) {
//	    next.ServeHTTP(w, r.WithContext(ctx))
//	})
func RunWithContext(ctx context.Context, rc RequestContext, fn func(context.Context)) {
	fn(ContextWithRequestContext(ctx, rc))
}

// RequestContextFromContext returns the bound RequestContext, if any.
func RequestContextFromContext(ctx context.Context) (RequestContext, bool) {
	if ctx == nil {
		return RequestContext{}, false
	}
	rc, ok := ctx.Value(requestContextKey).(RequestContext)
	return rc, ok
}

// RequestIDFromContext returns the bound request id, or "" outside any request.
func RequestIDFromContext(ctx context.Context) string {
	rc, _ := RequestContextFromContext(ctx)
	return rc.RequestID
}

// ContextWithLogger stores a logger in the context.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext retrieves a logger from context, falling back to the global one.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns a logger carrying request_id when the context has one.
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("log file stream interrupted")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := LoggerFromContext(ctx)
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logger = logger.With().Str("request_id", requestID).Logger()
	}
	return &logger
}

// WithComponent creates a child logger with a component field.
//
//	supLogger := logging.WithComponent("supervisor")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
