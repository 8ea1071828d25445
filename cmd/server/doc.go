// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

/*
Package main is the entry point for the logpipe server.

The server hosts the buffered log pipeline and a small HTTP surface around
it: request logging for every route, pipeline stats, log file pulling and
Prometheus metrics.

# Application Architecture

	Supervisor tree ("logpipe")
	├── pipeline-layer
	│   └── LogPipeService (flushes the buffer on shutdown)
	└── api-layer
	    └── HTTP server (chi router)

Startup order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog for the process's own diagnostics
 3. Pipeline: transports from log.transports or the default table
 4. Router: request id, CORS, metrics, request logging into the pipeline
 5. Supervisor tree: suture v4, events logged through sutureslog

# Configuration

	# Pipeline
	LOG_ENABLED=true              # master switch
	LOG_CONSOLE=true              # console sink
	LOG_FILE=true                 # file sinks
	LOG_DIR=/logs                 # relative paths resolve against the working directory
	LOG_MIN_LEVEL=info            # default: info in production, trace otherwise
	LOG_MAX_FILE_SIZE_MB=50       # rotation threshold
	LOG_BUFFER_MAX_ENTRIES=10000  # newest entries are dropped beyond this
	LOG_FLUSH_TIMEOUT=2s
	LOG_TRANSPORT_<NAME>_MUTED=true

	# Server
	HTTP_PORT=3000
	ENVIRONMENT=production        # NODE_ENV is accepted as an alias
	LOG_PULL_SECRET=<secret>      # enables /api/v1/logs/files

	# Process diagnostics
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains in
flight requests within HTTP_TIMEOUT first. The pipeline is stopped after
that and flushes within LOG_FLUSH_TIMEOUT, so request logs written during
the drain are delivered. A last flush runs before the process exits.
*/
package main
