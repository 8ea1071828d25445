// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"context"
	"os"
	"strings"

	"github.com/tomtom215/logpipe/internal/config"
)

// Transport is one log sink with its own routing filter.
//
// Write applies the transport's routing and delivers the entry when it
// matches. It must not panic; a returned error is reported to the meta-log
// by the fan-out and never reaches the producer. A batch is grouped per
// transport by equality; a transport whose dynamic type is not comparable is
// treated as a new transport at every occurrence.
type Transport interface {
	Name() string
	Muted() bool
	Write(ctx context.Context, e Entry) error
}

// Sinks is the configuration every transport consults on each write.
type Sinks struct {
	Routing     RoutingConfig
	Console     bool
	File        bool
	Development bool
	Muted       map[string]bool // lower-cased transport name or short key
}

// SinksFromConfig derives Sinks from the loaded pipeline configuration.
func SinksFromConfig(cfg config.LogConfig) Sinks {
	minLevel, err := ParseLevel(cfg.MinLevel)
	if err != nil {
		minLevel = TraceLevel
		if cfg.IsProduction() {
			minLevel = InfoLevel
		}
	}
	return Sinks{
		Routing:     RoutingConfig{Enabled: cfg.Enabled, MinLevel: minLevel},
		Console:     cfg.Console,
		File:        cfg.File,
		Development: !cfg.IsProduction(),
		Muted:       cfg.TransportMuted,
	}
}

// resolveMuted picks the mute flag for a transport: the explicit option when
// set, otherwise the first configured key among keys.
func resolveMuted(explicit *bool, configured map[string]bool, keys ...string) bool {
	if explicit != nil {
		return *explicit
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if muted, ok := configured[strings.ToLower(key)]; ok {
			return muted
		}
	}
	return false
}

// appendLine appends data to path, creating the file when needed.
func appendLine(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
