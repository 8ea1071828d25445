// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

/*
Package services adapts long-running components to suture.Service.

  - HTTPServerService runs an *http.Server and shuts it down gracefully with
    a bounded timeout when its context ends.
  - LogPipeService waits for its context to end and then flushes the log
    pipeline with the configured flush timeout.

Both return ctx.Err() after a clean stop, which suture treats as a normal
shutdown rather than a failure.
*/
package services
