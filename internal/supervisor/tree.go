// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	// Default: 30
	FailureDecay float64

	// FailureBackoff is the duration to wait when threshold is exceeded.
	// Default: 15s
	FailureBackoff time.Duration

	// ShutdownTimeout is how long a layer waits for each service to stop.
	// It must exceed the pipeline flush timeout or the flush is abandoned.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's documented defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	def := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = def.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = def.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = def.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = def.ShutdownTimeout
	}
	return c
}

// SupervisorTree is the process supervision hierarchy:
//
//	logpipe
//	├── pipeline-layer  (LogPipeService: flushes the buffer on shutdown)
//	└── api-layer       (HTTP server)
//
// A crash-looping HTTP server is restarted without touching the pipeline.
// Shutdown is ordered: the api layer stops first, and only then is the
// pipeline layer canceled, so entries logged while requests drain are
// still in the buffer when the shutdown flush runs.
type SupervisorTree struct {
	pipeline *suture.Supervisor
	api      *suture.Supervisor
	logger   *slog.Logger
	config   TreeConfig
}

// NewSupervisorTree creates the tree. Zero config fields take their defaults.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	config = config.withDefaults()

	// MustHook has a pointer receiver.
	handler := &sutureslog.Handler{Logger: logger}

	// The layers are served directly, so each carries the hook itself.
	spec := suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	return &SupervisorTree{
		pipeline: suture.New("pipeline-layer", spec),
		api:      suture.New("api-layer", spec),
		logger:   logger,
		config:   config,
	}, nil
}

// AddPipelineService adds a service to the pipeline layer.
func (t *SupervisorTree) AddPipelineService(svc suture.Service) suture.ServiceToken {
	return t.pipeline.Add(svc)
}

// AddAPIService adds a service to the API layer.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve runs both layers until ctx is canceled. On cancellation the api
// layer is stopped and waited for before the pipeline layer is canceled.
// Serve returns ctx.Err() after a clean shutdown, or the first layer error
// that was not caused by cancellation.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	pipelineCtx, stopPipeline := context.WithCancel(context.WithoutCancel(ctx))
	defer stopPipeline()

	pipelineDone := t.pipeline.ServeBackground(pipelineCtx)
	apiErr := t.api.Serve(ctx)

	t.logger.Debug("api layer stopped, stopping pipeline layer")
	stopPipeline()
	pipelineErr := <-pipelineDone

	if apiErr != nil && !errors.Is(apiErr, context.Canceled) {
		return fmt.Errorf("api layer: %w", apiErr)
	}
	if pipelineErr != nil && !errors.Is(pipelineErr, context.Canceled) {
		return fmt.Errorf("pipeline layer: %w", pipelineErr)
	}
	return ctx.Err()
}

// ServeBackground runs Serve in a goroutine. The channel receives its result.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- t.Serve(ctx)
	}()
	return errCh
}

// UnstoppedServiceReport lists services that outlived ShutdownTimeout in
// either layer.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	var report []suture.UnstoppedService
	for _, layer := range []*suture.Supervisor{t.api, t.pipeline} {
		r, err := layer.UnstoppedServiceReport()
		if err != nil {
			return nil, err
		}
		report = append(report, r...)
	}
	return report, nil
}
