// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

/*
Package logpipe is the in-process log pipeline: a facade that stamps entries,
a bounded buffer that decouples producers from I/O, and a fan-out that
delivers each drained entry to every eligible transport concurrently.

# Flow

	Logger.Info(ctx, msg, kv...)
	    -> Entry{level, msg, timestamp, domain, requestId, fields}
	    -> Buffer.Enqueue(entry, snapshot of transports)
	    -> drain goroutine: fanoutBatch
	    -> Transport.Write (console, level file, named file)

Emission never blocks on I/O and never returns an error. When the buffer is
full the incoming entry is dropped and counted; queued entries are kept.
Transport failures go to the meta-log (stderr plus logger-meta.log in the log
directory) and never reach the producer.

# Routing

Every transport applies the shared gate (pipeline enabled, transport not
muted, level at or above the minimum). Level file transports additionally
require an exact level; named file transports require at least one matching
domain and, when configured, a level from their allow-list. Entries without a
domain never reach a named transport.

# Files

File transports append one JSON line per entry to
<dir>/<prefix><YYYY-MM-DD>.log, moving on to ~1, ~2 ... ~999 suffixes once a
file reaches the configured size:

	error-2026-03-01.log
	error-2026-03-01~1.log
	http-2026-03-01.log

# Usage

	pipe, err := logpipe.NewFromConfig(cfg.Log, os.Stdout, os.Stderr)
	if err != nil {
	    return err
	}
	pipe.Info(ctx, "service started", "domain", "service", "port", 3000)
	defer pipe.Flush(context.Background(), logpipe.FlushOptions{})

Entries queued before SetTransports are delivered to the transport list that
was current when they were enqueued.
*/
package logpipe
