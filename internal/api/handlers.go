// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package api

import (
	"context"
	"time"

	"github.com/tomtom215/logpipe/internal/logpipe"
)

// Pipeline is the part of the log pipeline the handlers use: buffer stats
// for the stats endpoint and service-domain events for the log puller.
// *logpipe.Logger satisfies it.
type Pipeline interface {
	Enabled() bool
	Stats() logpipe.BufferStats
	Transports() []logpipe.Transport
	Info(ctx context.Context, msg string, kv ...any)
	Warn(ctx context.Context, msg string, kv ...any)
}

// HandlerConfig carries the values the handlers need from the loaded config.
type HandlerConfig struct {
	LogDir     string
	PullSecret string
}

// Handler serves the operator endpoints.
type Handler struct {
	pipe       Pipeline
	logDir     string
	pullSecret string
	startTime  time.Time
}

// NewHandler creates the handler set.
func NewHandler(pipe Pipeline, cfg HandlerConfig) *Handler {
	return &Handler{
		pipe:       pipe,
		logDir:     cfg.LogDir,
		pullSecret: cfg.PullSecret,
		startTime:  time.Now(),
	}
}
