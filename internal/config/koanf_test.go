// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolateConfig points CONFIG_PATH at a missing file and runs from an empty
// directory so no stray config.yaml is picked up.
func isolateConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	for _, key := range []string{"ENVIRONMENT", "NODE_ENV", "LOG_DIR", "LOG_MIN_LEVEL", "LOG_PULL_SECRET"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if !cfg.Log.Enabled || !cfg.Log.Console || !cfg.Log.File {
		t.Errorf("log switches should default to true, got %+v", cfg.Log)
	}
	if cfg.Log.Dir != "/logs" {
		t.Errorf("Log.Dir = %q, want /logs", cfg.Log.Dir)
	}
	if cfg.Log.MaxFileSizeMB != 50 {
		t.Errorf("Log.MaxFileSizeMB = %v, want 50", cfg.Log.MaxFileSizeMB)
	}
	if cfg.Log.BufferMaxEntries != 10000 {
		t.Errorf("Log.BufferMaxEntries = %d, want 10000", cfg.Log.BufferMaxEntries)
	}
	if cfg.Log.FlushTimeout != 2*time.Second {
		t.Errorf("Log.FlushTimeout = %v, want 2s", cfg.Log.FlushTimeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolateConfig(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Environment != EnvDevelopment {
		t.Errorf("Environment = %q, want development", cfg.Server.Environment)
	}
	if cfg.Log.Environment != EnvDevelopment {
		t.Errorf("Log.Environment = %q, want development", cfg.Log.Environment)
	}
	if cfg.Log.MinLevel != "trace" {
		t.Errorf("MinLevel = %q, want trace outside production", cfg.Log.MinLevel)
	}
	if len(cfg.Log.Transports) != len(DefaultTransports()) {
		t.Errorf("Transports = %d entries, want the default table", len(cfg.Log.Transports))
	}
	if cfg.Log.TransportMuted == nil {
		t.Error("TransportMuted should be an empty map, not nil")
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	isolateConfig(t)
	logDir := t.TempDir()

	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("LOG_ENABLED", "false")
	t.Setenv("LOG_CONSOLE", "false")
	t.Setenv("LOG_DIR", logDir)
	t.Setenv("LOG_MAX_FILE_SIZE_MB", "0.5")
	t.Setenv("LOG_BUFFER_MAX_ENTRIES", "25")
	t.Setenv("LOG_FLUSH_TIMEOUT", "750ms")
	t.Setenv("LOG_MIN_LEVEL", "WARN")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8081 {
		t.Errorf("Port = %d, want 8081", cfg.Server.Port)
	}
	if cfg.Log.Enabled || cfg.Log.Console {
		t.Error("LOG_ENABLED/LOG_CONSOLE=false not applied")
	}
	if !cfg.Log.File {
		t.Error("Log.File should keep its default")
	}
	if cfg.Log.Dir != logDir {
		t.Errorf("Dir = %q, want %q", cfg.Log.Dir, logDir)
	}
	if cfg.Log.MaxFileSizeMB != 0.5 {
		t.Errorf("MaxFileSizeMB = %v, want 0.5", cfg.Log.MaxFileSizeMB)
	}
	if cfg.Log.BufferMaxEntries != 25 {
		t.Errorf("BufferMaxEntries = %d, want 25", cfg.Log.BufferMaxEntries)
	}
	if cfg.Log.FlushTimeout != 750*time.Millisecond {
		t.Errorf("FlushTimeout = %v, want 750ms", cfg.Log.FlushTimeout)
	}
	if cfg.Log.MinLevel != "warn" {
		t.Errorf("MinLevel = %q, want warn", cfg.Log.MinLevel)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadWithKoanf_ProductionMinLevel(t *testing.T) {
	tests := []struct {
		name    string
		envVar  string
		value   string
		wantEnv string
		wantMin string
	}{
		{"ENVIRONMENT production", "ENVIRONMENT", "production", EnvProduction, "info"},
		{"NODE_ENV alias", "NODE_ENV", "production", EnvProduction, "info"},
		{"unknown value is development", "ENVIRONMENT", "staging", EnvDevelopment, "trace"},
	}

	for _, tt := range tests {
		tt := tt // capture range variable (pre-Go 1.22 loop semantics)
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t)
			t.Setenv(tt.envVar, tt.value)

			cfg, err := LoadWithKoanf()
			if err != nil {
				t.Fatalf("LoadWithKoanf() error = %v", err)
			}
			if cfg.Server.Environment != tt.wantEnv {
				t.Errorf("Environment = %q, want %q", cfg.Server.Environment, tt.wantEnv)
			}
			if cfg.Log.MinLevel != tt.wantMin {
				t.Errorf("MinLevel = %q, want %q", cfg.Log.MinLevel, tt.wantMin)
			}
		})
	}
}

func TestLoadWithKoanf_InvalidMinLevelFallsBack(t *testing.T) {
	isolateConfig(t)
	t.Setenv("LOG_MIN_LEVEL", "verbose")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Log.MinLevel != "trace" {
		t.Errorf("MinLevel = %q, want trace", cfg.Log.MinLevel)
	}
}

func TestLoadWithKoanf_TransportMutedFromEnv(t *testing.T) {
	isolateConfig(t)
	t.Setenv("LOG_TRANSPORT_HTTP_MUTED", "true")
	t.Setenv("LOG_TRANSPORT_ERROR_MUTED", "false")
	t.Setenv("LOG_TRANSPORT_TRSPSERVICE_MUTED", "TRUE")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	muted := cfg.Log.TransportMuted
	if !muted["http"] {
		t.Error("http should be muted")
	}
	if v, ok := muted["error"]; !ok || v {
		t.Errorf("error = %v (present %v), want false and present", v, ok)
	}
	if !muted["trspservice"] {
		t.Error("trspservice should be muted")
	}
}

func TestLoadWithKoanf_EmptyLogDirWarns(t *testing.T) {
	isolateConfig(t)
	t.Setenv("LOG_DIR", "   ")

	var buf bytes.Buffer
	prev := warnOut
	warnOut = &buf
	t.Cleanup(func() { warnOut = prev })

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Log.Dir != DefaultLogDir {
		t.Errorf("Dir = %q, want %q", cfg.Log.Dir, DefaultLogDir)
	}
	if !strings.Contains(buf.String(), "LOG_DIR is empty") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

func TestLoadWithKoanf_RelativeLogDirIsAbsolute(t *testing.T) {
	isolateConfig(t)
	t.Setenv("LOG_DIR", "var/logs")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if !filepath.IsAbs(cfg.Log.Dir) {
		t.Errorf("Dir = %q, want an absolute path", cfg.Log.Dir)
	}
	if !strings.HasSuffix(cfg.Log.Dir, filepath.Join("var", "logs")) {
		t.Errorf("Dir = %q, want suffix var/logs", cfg.Log.Dir)
	}
}

func TestLoadWithKoanf_YAMLTransports(t *testing.T) {
	isolateConfig(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
log:
  buffer_max_entries: 42
  transports:
    - type: console
      muted: true
    - type: level
      prefix: fatal-
      level: fatal
    - type: named
      name: audit
      prefix: audit-
      domains: [audit, security]
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Log.BufferMaxEntries != 42 {
		t.Errorf("BufferMaxEntries = %d, want 42", cfg.Log.BufferMaxEntries)
	}
	defs := cfg.Log.Transports
	if len(defs) != 3 {
		t.Fatalf("Transports = %d, want 3", len(defs))
	}
	if defs[0].Muted == nil || !*defs[0].Muted {
		t.Error("console transport should carry muted=true")
	}
	if defs[1].Level != "fatal" || defs[1].Prefix != "fatal-" {
		t.Errorf("level transport = %+v", defs[1])
	}
	if defs[2].Name != "audit" || len(defs[2].Domains) != 2 {
		t.Errorf("named transport = %+v", defs[2])
	}
}

func TestLoadWithKoanf_ValidationFailure(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"port out of range", map[string]string{"HTTP_PORT": "70000"}, "Port"},
		{"zero buffer", map[string]string{"LOG_BUFFER_MAX_ENTRIES": "0"}, "BufferMaxEntries"},
		{"bad ambient level", map[string]string{"LOG_LEVEL": "loud"}, "Level"},
		{"short pull secret", map[string]string{"LOG_PULL_SECRET": "short"}, "LOG_PULL_SECRET"},
	}

	for _, tt := range tests {
		tt := tt // capture range variable (pre-Go 1.22 loop semantics)
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"NODE_ENV", "server.node_env"},
		{"LOG_LEVEL", "logging.level"},
		{"LOG_MIN_LEVEL", "log.min_level"},
		{"LOG_PULL_SECRET", "log_puller.pull_secret"},
		{"LOG_TRANSPORT_HTTP_MUTED", "log.transport_muted.http"},
		{"LOG_TRANSPORT_LEVEL_ERROR_MUTED", "log.transport_muted.level_error"},
		{"LOG_TRANSPORT__MUTED", ""},
		{"LOG_TRANSPORT_MUTED", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		tt := tt // capture range variable (pre-Go 1.22 loop semantics)
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestValidate_TransportDefs(t *testing.T) {
	t.Parallel()

	base := func() *Config {
		cfg := defaultConfig()
		cfg.normalizeForTest()
		return cfg
	}

	tests := []struct {
		name    string
		defs    []TransportDef
		wantErr string
	}{
		{"default table", DefaultTransports(), ""},
		{"unknown type", []TransportDef{{Type: "syslog"}}, "Type"},
		{"level without level", []TransportDef{{Type: "level", Prefix: "x-"}}, "Level"},
		{"named without domains", []TransportDef{{Type: "named", Prefix: "x-"}}, "Domains"},
		{"prefix escapes dir", []TransportDef{{Type: "level", Prefix: "../x-", Level: "info"}}, "Prefix"},
		{"duplicate names", []TransportDef{
			{Type: "level", Prefix: "a-", Level: "info"},
			{Type: "level", Prefix: "b-", Level: "info"},
		}, "duplicates"},
	}

	for _, tt := range tests {
		tt := tt // capture range variable (pre-Go 1.22 loop semantics)
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			cfg.Log.Transports = tt.defs
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestTransportName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		def  TransportDef
		want string
	}{
		{TransportDef{Type: "console"}, "console"},
		{TransportDef{Type: "level", Level: "ERROR", Prefix: "error-"}, "level-error"},
		{TransportDef{Type: "named", Prefix: "http-"}, "named-http"},
		{TransportDef{Type: "named", Name: "trspHttp", Prefix: "http-"}, "trspHttp"},
	}
	for _, tt := range tests {
		tt := tt // capture range variable (pre-Go 1.22 loop semantics)
		if got := TransportName(tt.def); got != tt.want {
			t.Errorf("TransportName(%+v) = %q, want %q", tt.def, got, tt.want)
		}
	}
}

// normalizeForTest runs normalize without touching the real filesystem layout.
func (c *Config) normalizeForTest() {
	c.Log.Dir = "/tmp/logpipe-test"
	c.normalize()
}
