// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/logpipe/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	requestLog    func(http.Handler) http.Handler
}

// NewRouter creates a router. requestLog is the request logging middleware,
// normally middleware.HTTPLogger over the pipeline the handler reports on.
func NewRouter(handler *Handler, mw *ChiMiddleware, requestLog func(http.Handler) http.Handler) *Router {
	if requestLog == nil {
		requestLog = func(next http.Handler) http.Handler { return next }
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		requestLog:    requestLog,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, outermost first. Recoverer sits inside the request
	// logger so panics are logged as 500s.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.requestLog)
	r.Use(chimiddleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("route not found: " + r.Method + " " + r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
	})

	r.Route("/api/v1/logs", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("logs"))

		r.Get("/stats", router.handler.LogStats)

		r.With(router.handler.RequirePullSecret("list")).Get("/files", router.handler.ListLogFiles)
		r.With(
			router.handler.RequirePullSecret("download"),
			chimiddleware.Compress(5, "text/plain"),
		).Get("/files/{filename}", router.handler.StreamLogFile)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
