// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/logpipe/internal/api"
	"github.com/tomtom215/logpipe/internal/config"
	"github.com/tomtom215/logpipe/internal/logging"
	"github.com/tomtom215/logpipe/internal/logpipe"
	"github.com/tomtom215/logpipe/internal/middleware"
	"github.com/tomtom215/logpipe/internal/supervisor"
	"github.com/tomtom215/logpipe/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config not yet available; the default logger writes JSON to stderr.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("log_dir", cfg.Log.Dir).
		Str("min_level", cfg.Log.MinLevel).
		Bool("pipeline_enabled", cfg.Log.Enabled).
		Bool("puller_enabled", cfg.LogPuller.PullSecret != "").
		Msg("Configuration loaded")

	pipe, err := logpipe.NewFromConfig(cfg.Log, os.Stdout, os.Stderr)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build log pipeline")
	}

	names := make([]string, 0, len(pipe.Transports()))
	for _, t := range pipe.Transports() {
		names = append(names, t.Name())
	}
	logging.Info().Strs("transports", names).Msg("Log pipeline initialized")

	router := api.NewRouter(
		api.NewHandler(pipe, api.HandlerConfig{
			LogDir:     cfg.Log.Dir,
			PullSecret: cfg.LogPuller.PullSecret,
		}),
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)),
		middleware.HTTPLogger(pipe, middleware.HTTPLogOptions{Meta: pipe.Meta()}),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// Each layer waits ShutdownTimeout for its services; the flush must fit.
	shutdownTimeout := cfg.Server.Timeout
	if flushBudget := cfg.Log.FlushTimeout + time.Second; flushBudget > shutdownTimeout {
		shutdownTimeout = flushBudget
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddPipelineService(services.NewLogPipeService(pipe, cfg.Log.FlushTimeout))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipe.Info(ctx, "logpipe server started", "domain", "service", "addr", server.Addr)

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	// Entries enqueued after the pipeline layer's flush.
	if err := pipe.Flush(context.Background(), logpipe.FlushOptions{}); err != nil {
		logging.Warn().Err(err).Msg("Final log flush incomplete")
	}

	logging.Info().Msg("Application stopped")
	if len(unstopped) > 0 {
		os.Exit(1)
	}
}
