// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package config

import (
	"strings"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//   - Server: HTTP listener and environment mode
//   - Logging: the process's own zerolog diagnostics
//   - Log: the buffered log pipeline (sinks, directory, buffer, transports)
//   - LogPuller: operator access to the files the pipeline writes
//   - Security: CORS and rate limiting for the HTTP surface
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Log       LogConfig       `koanf:"log"`
	LogPuller LogPullerConfig `koanf:"log_puller"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port" validate:"gte=1,lte=65535"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`
	Environment string        `koanf:"environment"` // "development" or "production" after normalization

	// NodeEnv is the NODE_ENV alias; ENVIRONMENT wins when both are set.
	NodeEnv string `koanf:"node_env"`
}

// LoggingConfig holds settings for the process's own zerolog diagnostics.
// It does not affect the log pipeline, which has its own LogConfig.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// LogConfig configures the buffered log pipeline.
//
// Environment Variables:
//   - LOG_ENABLED: master switch (default: true)
//   - LOG_CONSOLE: console sink toggle (default: true)
//   - LOG_FILE: file sink toggle (default: true)
//   - LOG_DIR: log directory (default: /logs)
//   - LOG_MIN_LEVEL: minimum level (default: info in production, trace otherwise)
//   - LOG_MAX_FILE_SIZE_MB: rotation threshold in MB (default: 50)
//   - LOG_BUFFER_MAX_ENTRIES: queue capacity (default: 10000)
//   - LOG_FLUSH_TIMEOUT: default flush timeout (default: 2s)
//   - LOG_TRANSPORT_<NAME>_MUTED: mute one transport by name or short key
type LogConfig struct {
	Enabled          bool          `koanf:"enabled"`
	Console          bool          `koanf:"console"`
	File             bool          `koanf:"file"`
	Dir              string        `koanf:"dir"`
	MinLevel         string        `koanf:"min_level"`
	MaxFileSizeMB    float64       `koanf:"max_file_size_mb" validate:"gt=0"`
	BufferMaxEntries int           `koanf:"buffer_max_entries" validate:"gte=1"`
	FlushTimeout     time.Duration `koanf:"flush_timeout" validate:"gt=0"`

	// Environment mirrors Server.Environment after normalization. The pipeline
	// uses it to pick the console format and the default minimum level.
	Environment string `koanf:"-"`

	// TransportMuted maps a lower-cased transport name or short key to a mute flag.
	TransportMuted map[string]bool `koanf:"transport_muted"`

	// Transports replaces DefaultTransports when non-empty.
	Transports []TransportDef `koanf:"transports" validate:"dive"`
}

// IsProduction reports whether the pipeline runs in production mode.
func (c LogConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// TransportDef declares one transport of the pipeline.
//
// Example (config.yaml):
//
//	log:
//	  transports:
//	    - type: console
//	    - type: level
//	      prefix: error-
//	      level: error
//	    - type: named
//	      name: trspHttp
//	      prefix: http-
//	      domains: [http]
//	      levels: [info, warn, error]
type TransportDef struct {
	Type    string   `koanf:"type" validate:"required,oneof=console level named"`
	Name    string   `koanf:"name"`
	Prefix  string   `koanf:"prefix" validate:"required_unless=Type console,omitempty,logprefix"`
	Level   string   `koanf:"level" validate:"required_if=Type level,omitempty,oneof=trace debug info warn error fatal"`
	Domains []string `koanf:"domains" validate:"required_if=Type named,dive,logdomain"`
	Levels  []string `koanf:"levels" validate:"dive,oneof=trace debug info warn error fatal"`

	// Muted overrides TransportMuted when set.
	Muted *bool `koanf:"muted"`
}

// LogPullerConfig guards the log file endpoints.
type LogPullerConfig struct {
	// PullSecret must be sent in X-Pull-Secret. Empty disables the endpoints.
	PullSecret string `koanf:"pull_secret"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=1,lte=100000"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=1s"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Environment modes.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultLogDir is used when LOG_DIR is unset or empty.
const DefaultLogDir = "/logs"

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// normalizeEnvironment maps free-form environment names onto the two modes.
func normalizeEnvironment(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

// DefaultTransports returns the transport table used when none is configured.
func DefaultTransports() []TransportDef {
	return []TransportDef{
		{Type: "console"},
		{Type: "level", Prefix: "error-", Level: "error"},
		{Type: "level", Prefix: "info-", Level: "info"},
		{Type: "level", Prefix: "warn-", Level: "warn"},
		{Type: "named", Name: "trspHttp", Prefix: "http-", Domains: []string{"http"}, Levels: []string{"info", "warn", "error"}},
		{Type: "named", Name: "trspService", Prefix: "service-", Domains: []string{"service"}},
	}
}

// Load reads configuration from defaults, config file and environment.
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
