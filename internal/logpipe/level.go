// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Level is an entry severity. Higher values are more severe.
type Level int8

// Severity levels in ascending order.
const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// ErrUnknownLevel is returned by ParseLevel for names outside the enumeration.
var ErrUnknownLevel = errors.New("unknown log level")

var levelNames = [...]string{"trace", "debug", "info", "warn", "error", "fatal"}

// Levels returns every level in ascending severity.
func Levels() []Level {
	return []Level{TraceLevel, DebugLevel, InfoLevel, WarnLevel, ErrorLevel, FatalLevel}
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= TraceLevel && l <= FatalLevel
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int8(l))
	}
	return levelNames[l]
}

// Enabled reports whether an entry at l passes a minimum of min.
func (l Level) Enabled(min Level) bool {
	return l >= min
}

// ParseLevel parses a level name case-insensitively. "warning" is accepted as warn.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		return WarnLevel, nil
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return InfoLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int8(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// zerologLevel maps l onto zerolog's scale for console rendering.
func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case TraceLevel:
		return zerolog.TraceLevel
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.FatalLevel
	}
}

// parseLevels parses a list of level names, failing on the first unknown one.
func parseLevels(names []string) ([]Level, error) {
	if len(names) == 0 {
		return nil, nil
	}
	levels := make([]Level, 0, len(names))
	for _, name := range names {
		lvl, err := ParseLevel(name)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	return levels, nil
}
