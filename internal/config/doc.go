// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

/*
Package config provides centralized configuration management for Logpipe.

Configuration is loaded once at startup with Koanf v2 from three layers, later
layers overriding earlier ones:
  - Built-in defaults (defaultConfig)
  - An optional YAML file (CONFIG_PATH, config.yaml, /etc/logpipe/config.yaml)
  - Environment variables

After loading, the configuration is normalized and validated. The returned
*Config is never mutated again; components receive the values they need
through their constructors.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:3000), HTTP_TIMEOUT (default: 30s)
  - ENVIRONMENT or NODE_ENV: production or development (default: development)

Process diagnostics (zerolog):
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Log pipeline:
  - LOG_ENABLED, LOG_CONSOLE, LOG_FILE: switches (default: true)
  - LOG_DIR: log directory (default: /logs; empty falls back with a warning)
  - LOG_MIN_LEVEL: trace..fatal (default: info in production, trace otherwise)
  - LOG_MAX_FILE_SIZE_MB: rotation threshold (default: 50)
  - LOG_BUFFER_MAX_ENTRIES: queue capacity (default: 10000)
  - LOG_FLUSH_TIMEOUT: flush bound (default: 2s)
  - LOG_TRANSPORT_<NAME>_MUTED: mute a transport by lower-cased name or short key

HTTP surface:
  - LOG_PULL_SECRET: secret for the log file endpoints (empty disables them)
  - CORS_ORIGINS: comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

# Transport Table

log.transports in the YAML file replaces DefaultTransports. Each entry is a
TransportDef of type console, level or named; see TransportDef for an example.
*/
package config
