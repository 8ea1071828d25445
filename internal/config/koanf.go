// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/logpipe/config.yaml",
	"/etc/logpipe/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// warnOut receives load-time warnings; the ambient logger is not initialised yet.
var warnOut io.Writer = os.Stderr

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    3000,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Log: LogConfig{
			Enabled:          true,
			Console:          true,
			File:             true,
			Dir:              DefaultLogDir,
			MaxFileSizeMB:    50,
			BufferMaxEntries: 10000,
			FlushTimeout:     2 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// The result is normalized (environment, log directory, minimum level,
// transport table) and validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// LOG_DIR -> log.dir, LOG_TRANSPORT_HTTP_MUTED -> log.transport_muted.http
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// normalize applies the derived defaults that depend on other settings.
func (c *Config) normalize() {
	envName := c.Server.Environment
	if strings.TrimSpace(envName) == "" {
		envName = c.Server.NodeEnv
	}
	c.Server.Environment = normalizeEnvironment(envName)
	c.Log.Environment = c.Server.Environment

	c.Log.Dir = resolveLogDir(c.Log.Dir)

	if !isKnownLevel(c.Log.MinLevel) {
		if c.IsProduction() {
			c.Log.MinLevel = "info"
		} else {
			c.Log.MinLevel = "trace"
		}
	} else {
		c.Log.MinLevel = strings.ToLower(c.Log.MinLevel)
	}

	if c.Log.TransportMuted == nil {
		c.Log.TransportMuted = map[string]bool{}
	} else {
		lowered := make(map[string]bool, len(c.Log.TransportMuted))
		for name, muted := range c.Log.TransportMuted {
			lowered[strings.ToLower(name)] = muted
		}
		c.Log.TransportMuted = lowered
	}

	if len(c.Log.Transports) == 0 {
		c.Log.Transports = DefaultTransports()
	}
}

// resolveLogDir falls back to DefaultLogDir for an empty value and makes
// anything else absolute.
func resolveLogDir(dir string) string {
	if strings.TrimSpace(dir) == "" {
		_, _ = fmt.Fprintf(warnOut, "LOG_DIR is empty, falling back to %s\n", DefaultLogDir)
		return DefaultLogDir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	return abs
}

func isKnownLevel(level string) bool {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "error", "fatal":
		return true
	default:
		return false
	}
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",
	"node_env":     "server.node_env",

	// Ambient logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Pipeline mappings
	"log_enabled":            "log.enabled",
	"log_console":            "log.console",
	"log_file":               "log.file",
	"log_dir":                "log.dir",
	"log_min_level":          "log.min_level",
	"log_max_file_size_mb":   "log.max_file_size_mb",
	"log_buffer_max_entries": "log.buffer_max_entries",
	"log_flush_timeout":      "log.flush_timeout",

	// Log puller
	"log_pull_secret": "log_puller.pull_secret",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
}

const (
	transportMutedPrefix = "log_transport_"
	transportMutedSuffix = "_muted"
)

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - LOG_BUFFER_MAX_ENTRIES -> log.buffer_max_entries
//   - LOG_TRANSPORT_HTTP_MUTED -> log.transport_muted.http
//
// Unmapped keys return "" so unrelated environment variables are skipped.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	if len(key) > len(transportMutedPrefix)+len(transportMutedSuffix) &&
		strings.HasPrefix(key, transportMutedPrefix) && strings.HasSuffix(key, transportMutedSuffix) {
		name := key[len(transportMutedPrefix) : len(key)-len(transportMutedSuffix)]
		if name != "" && !strings.Contains(name, ".") {
			return "log.transport_muted." + name
		}
	}

	return ""
}
