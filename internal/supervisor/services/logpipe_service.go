// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package services

import (
	"context"
	"time"

	"github.com/tomtom215/logpipe/internal/logging"
	"github.com/tomtom215/logpipe/internal/logpipe"
)

// Flusher is the part of *logpipe.Logger the service drives.
type Flusher interface {
	Flush(ctx context.Context, opts logpipe.FlushOptions) error
	Stats() logpipe.BufferStats
}

// LogPipeService owns the pipeline's shutdown. It idles while the process
// runs and flushes the buffer once ctx ends, so the tree only finishes
// stopping after queued entries reach their transports or the flush times out.
type LogPipeService struct {
	pipe         Flusher
	flushTimeout time.Duration
}

// NewLogPipeService wraps pipe. A non-positive flushTimeout selects
// logpipe.DefaultFlushTimeout.
func NewLogPipeService(pipe Flusher, flushTimeout time.Duration) *LogPipeService {
	if flushTimeout <= 0 {
		flushTimeout = logpipe.DefaultFlushTimeout
	}
	return &LogPipeService{pipe: pipe, flushTimeout: flushTimeout}
}

// Serve implements suture.Service.
func (s *LogPipeService) Serve(ctx context.Context) error {
	<-ctx.Done()

	logger := logging.WithComponent(s.String())
	stats := s.pipe.Stats()
	logger.Info().
		Int("queue_length", stats.QueueLength).
		Uint64("dropped", stats.DropCount).
		Msg("Flushing log pipeline")

	if err := s.pipe.Flush(context.Background(), logpipe.FlushOptions{Timeout: s.flushTimeout}); err != nil {
		// The pipeline already reported the timeout to its meta-log.
		logger.Warn().Err(err).Msg("Log pipeline flush incomplete")
	}
	return ctx.Err()
}

// FlushTimeout is the bound applied to the shutdown flush.
func (s *LogPipeService) FlushTimeout() time.Duration {
	return s.flushTimeout
}

// String names the service in supervisor events.
func (s *LogPipeService) String() string {
	return "logpipe"
}
