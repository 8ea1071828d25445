// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/logpipe/internal/metrics"
)

// NamedFileOptions configures a NamedFileTransport.
type NamedFileOptions struct {
	Name    string
	Prefix  string
	Domains []string
	Levels  []Level // nil accepts every level
	Muted   *bool
	Sinks   Sinks
	Rotator *Rotator
	Meta    *Meta
}

// NamedFileTransport appends entries tagged with one of its domains to a
// rotating file. It shares write mechanics with LevelFileTransport but not
// its filtering, and the two are kept separate on purpose.
type NamedFileTransport struct {
	name    string
	prefix  string
	domains []string
	levels  []Level
	muted   bool
	sinks   Sinks
	rotator *Rotator
	meta    *Meta
}

// NewNamedFileTransport creates a domain-routed file transport.
func NewNamedFileTransport(opts NamedFileOptions) *NamedFileTransport {
	if opts.Name == "" {
		opts.Name = "named-" + strings.TrimSuffix(opts.Prefix, "-")
	}
	var levels []Level
	if opts.Levels != nil {
		levels = append([]Level{}, opts.Levels...)
	}
	return &NamedFileTransport{
		name:    opts.Name,
		prefix:  opts.Prefix,
		domains: append([]string(nil), opts.Domains...),
		levels:  levels,
		muted:   resolveMuted(opts.Muted, opts.Sinks.Muted, opts.Name, strings.TrimSuffix(opts.Prefix, "-")),
		sinks:   opts.Sinks,
		rotator: opts.Rotator,
		meta:    opts.Meta,
	}
}

func (t *NamedFileTransport) Name() string { return t.name }

func (t *NamedFileTransport) Muted() bool { return t.muted }

// Domains returns the domains this transport accepts.
func (t *NamedFileTransport) Domains() []string { return t.domains }

// Levels returns the level allow-list, nil when every level is accepted.
func (t *NamedFileTransport) Levels() []Level { return t.levels }

// Prefix returns the file name prefix.
func (t *NamedFileTransport) Prefix() string { return t.prefix }

// Write appends e as one JSON line when one of its domains matches.
func (t *NamedFileTransport) Write(_ context.Context, e Entry) error {
	if !ShouldReceiveNamed(t, e, t.sinks.Routing) {
		return nil
	}
	if !t.sinks.File {
		return nil
	}

	path := t.rotator.Resolve(t.prefix)
	line := e.jsonLine()
	if err := appendLine(path, line); err != nil {
		metrics.RecordTransportWrite(t.name, err)
		t.meta.Error(fmt.Sprintf("file-named transport %q failed, path: %s", t.name, path), err)
		return nil
	}
	metrics.RecordTransportWrite(t.name, nil)
	return nil
}
