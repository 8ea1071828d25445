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

// LevelFileOptions configures a LevelFileTransport.
type LevelFileOptions struct {
	Prefix  string // file name prefix, e.g. "error-"
	Level   Level
	Muted   *bool
	Sinks   Sinks
	Rotator *Rotator
	Meta    *Meta
}

// LevelFileTransport appends entries of exactly one level to a rotating file.
type LevelFileTransport struct {
	name    string
	prefix  string
	level   Level
	muted   bool
	sinks   Sinks
	rotator *Rotator
	meta    *Meta
}

// NewLevelFileTransport creates a level file transport named level-<level>.
func NewLevelFileTransport(opts LevelFileOptions) *LevelFileTransport {
	name := "level-" + opts.Level.String()
	return &LevelFileTransport{
		name:    name,
		prefix:  opts.Prefix,
		level:   opts.Level,
		muted:   resolveMuted(opts.Muted, opts.Sinks.Muted, name, opts.Level.String(), strings.TrimSuffix(opts.Prefix, "-")),
		sinks:   opts.Sinks,
		rotator: opts.Rotator,
		meta:    opts.Meta,
	}
}

func (t *LevelFileTransport) Name() string { return t.name }

func (t *LevelFileTransport) Muted() bool { return t.muted }

// Level returns the only level this transport accepts.
func (t *LevelFileTransport) Level() Level { return t.level }

// Prefix returns the file name prefix.
func (t *LevelFileTransport) Prefix() string { return t.prefix }

// Write appends e as one JSON line. I/O failures go to the meta-log with the
// attempted path and are not returned.
func (t *LevelFileTransport) Write(_ context.Context, e Entry) error {
	if !ShouldReceiveLevel(t, e, t.sinks.Routing) {
		return nil
	}
	if !t.sinks.File {
		return nil
	}

	path := t.rotator.Resolve(t.prefix)
	err := appendLine(path, e.jsonLine())
	metrics.RecordTransportWrite(t.name, err)
	if err != nil {
		t.meta.Error(fmt.Sprintf("file-level transport %q failed, path: %s", t.name, path), err)
	}
	return nil
}
