// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

/*
Package logging holds the process's own zerolog diagnostics and the ambient
request context shared with the log pipeline.

Two separate concerns live here:

  - Diagnostics: a global zerolog logger (Init, Info, Warn, Err, Ctx) used by
    the server, the supervisor tree and the HTTP surface. It is configured
    from LOG_LEVEL, LOG_FORMAT and LOG_CALLER and never goes through the
    buffered pipeline.
  - Request context: RequestContext and RunWithContext bind a request id to a
    context.Context. The pipeline's facade reads it back with
    RequestIDFromContext to enrich entries that do not carry an id.

# Quick Start

	logging.Init(logging.Config{Level: "info", Format: "json"})
	logging.Info().Str("addr", addr).Msg("HTTP server listening")

	logging.RunWithContext(ctx, logging.RequestContext{RequestID: id}, func(ctx context.Context) {
	    logging.Ctx(ctx).Debug().Msg("inside request") // carries request_id
	})

# slog Bridge

SlogHandler adapts zerolog to log/slog for libraries such as sutureslog:

	slogger := logging.NewSlogLogger("supervisor")

Always terminate event chains with .Msg() or .Send(); an unterminated event
is never written.
*/
package logging
