// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/logpipe/internal/config"
)

// ErrUnknownTransportType is returned for a definition whose type is not
// console, level or named.
var ErrUnknownTransportType = errors.New("unknown transport type")

// BuildDeps carries what BuildTransports wires into each transport.
type BuildDeps struct {
	Sinks   Sinks
	Rotator *Rotator
	Meta    *Meta
	Out     io.Writer
	ErrOut  io.Writer
}

// BuildTransports turns declarative definitions into transports, in order.
func BuildTransports(defs []config.TransportDef, deps BuildDeps) ([]Transport, error) {
	transports := make([]Transport, 0, len(defs))
	for i, def := range defs {
		t, err := buildTransport(def, deps)
		if err != nil {
			return nil, fmt.Errorf("transport %d (%s): %w", i, config.TransportName(def), err)
		}
		transports = append(transports, t)
	}
	return transports, nil
}

func buildTransport(def config.TransportDef, deps BuildDeps) (Transport, error) {
	switch def.Type {
	case "console":
		return NewConsoleTransport(ConsoleOptions{
			Sinks:  deps.Sinks,
			Muted:  def.Muted,
			Out:    deps.Out,
			ErrOut: deps.ErrOut,
		}), nil

	case "level":
		level, err := ParseLevel(def.Level)
		if err != nil {
			return nil, err
		}
		return NewLevelFileTransport(LevelFileOptions{
			Prefix:  def.Prefix,
			Level:   level,
			Muted:   def.Muted,
			Sinks:   deps.Sinks,
			Rotator: deps.Rotator,
			Meta:    deps.Meta,
		}), nil

	case "named":
		levels, err := parseLevels(def.Levels)
		if err != nil {
			return nil, err
		}
		return NewNamedFileTransport(NamedFileOptions{
			Name:    config.TransportName(def),
			Prefix:  def.Prefix,
			Domains: def.Domains,
			Levels:  levels,
			Muted:   def.Muted,
			Sinks:   deps.Sinks,
			Rotator: deps.Rotator,
			Meta:    deps.Meta,
		}), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransportType, def.Type)
	}
}
