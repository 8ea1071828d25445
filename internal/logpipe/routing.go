// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

// RoutingConfig is the pipeline-wide part of every routing decision.
type RoutingConfig struct {
	Enabled  bool
	MinLevel Level
}

// LevelRouted is a transport that accepts exactly one level.
type LevelRouted interface {
	Transport
	Level() Level
}

// DomainRouted is a transport that accepts entries tagged with one of its
// domains, optionally restricted to a set of levels.
type DomainRouted interface {
	Transport
	Domains() []string
	Levels() []Level // nil accepts every level
}

// ShouldReceive is the gate shared by every transport: logging enabled,
// transport not muted, entry at or above the minimum level.
func ShouldReceive(t Transport, e Entry, cfg RoutingConfig) bool {
	if !cfg.Enabled {
		return false
	}
	if t.Muted() {
		return false
	}
	return e.Level.Enabled(cfg.MinLevel)
}

// ShouldReceiveLevel adds an exact level match to ShouldReceive.
func ShouldReceiveLevel(t LevelRouted, e Entry, cfg RoutingConfig) bool {
	if !ShouldReceive(t, e, cfg) {
		return false
	}
	return e.Level == t.Level()
}

// ShouldReceiveNamed adds the optional level allow-list and strict domain
// matching to ShouldReceive. An entry without any domain never matches.
func ShouldReceiveNamed(t DomainRouted, e Entry, cfg RoutingConfig) bool {
	if !ShouldReceive(t, e, cfg) {
		return false
	}
	if levels := t.Levels(); levels != nil && !containsLevel(levels, e.Level) {
		return false
	}
	if len(e.Domain) == 0 {
		return false
	}
	return e.HasDomain(t.Domains()...)
}

func containsLevel(levels []Level, l Level) bool {
	for _, candidate := range levels {
		if candidate == l {
			return true
		}
	}
	return false
}
