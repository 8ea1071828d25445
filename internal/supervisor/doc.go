// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

/*
Package supervisor runs the process's long-lived services under a suture v4
supervisor tree.

The tree has two layers:

  - pipeline-layer holds services.LogPipeService, which owns the shutdown
    flush of the log pipeline.
  - api-layer holds services.HTTPServerService.

Supervisor events (service failures, backoff, restarts) are logged through
sutureslog into the zerolog-backed slog adapter:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Log.FlushTimeout + cfg.Server.Timeout,
	})
	if err != nil {
		return err
	}
	tree.AddPipelineService(services.NewLogPipeService(pipe, cfg.Log.FlushTimeout))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

Cancelling ctx stops the api layer first. Once the HTTP server has drained,
the pipeline layer is canceled and its flush delivers everything logged up to
that point, including entries from requests that finished during the drain.
Each layer's shutdown is bounded by ShutdownTimeout.
*/
package supervisor
