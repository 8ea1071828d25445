// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

/*
Command logpipe-cat feeds lines from stdin into the log pipeline.

Each line becomes one entry delivered through the transports configured in
the log section (LOG_* environment variables or config.yaml), so a shell
script or a cron job can write into the same files as the server:

	backup.sh 2>&1 | logpipe-cat -level warn -domain service,backup
	tail -F app.jsonl | logpipe-cat -json

Flags:

	-level   level for plain lines (default info)
	-domain  comma-separated domains attached to every entry
	-json    decode each line as a JSON object; "level" and "msg" are taken
	         from it and the other keys become metadata

Lines that are not valid JSON under -json are logged verbatim.

SIGINT and SIGTERM flush the pipeline before the process exits. At end of
input the pipeline is flushed within LOG_FLUSH_TIMEOUT.
*/
package main
