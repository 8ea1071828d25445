// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"errors"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"trace", TraceLevel, false},
		{"DEBUG", DebugLevel, false},
		{" info ", InfoLevel, false},
		{"warn", WarnLevel, false},
		{"Warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"fatal", FatalLevel, false},
		{"verbose", InfoLevel, true},
		{"", InfoLevel, true},
	}

	for _, tt := range tests {
		tt := tt // capture range variable (pre-Go 1.22 loop semantics)
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownLevel) {
				t.Errorf("error should wrap ErrUnknownLevel, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevel_OrderAndNames(t *testing.T) {
	t.Parallel()

	levels := Levels()
	want := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(levels) != len(want) {
		t.Fatalf("Levels() returned %d levels, want %d", len(levels), len(want))
	}
	for i, l := range levels {
		if l.String() != want[i] {
			t.Errorf("Levels()[%d] = %s, want %s", i, l, want[i])
		}
		if i > 0 && !(levels[i-1] < l) {
			t.Errorf("%s should be less severe than %s", levels[i-1], l)
		}
	}

	if Level(42).Valid() {
		t.Error("Level(42) should not be valid")
	}
	if Level(42).String() != "Level(42)" {
		t.Errorf("String() of invalid level = %q", Level(42).String())
	}
}

func TestLevel_Enabled(t *testing.T) {
	t.Parallel()

	if !WarnLevel.Enabled(InfoLevel) {
		t.Error("warn should pass an info minimum")
	}
	if !InfoLevel.Enabled(InfoLevel) {
		t.Error("info should pass an info minimum")
	}
	if DebugLevel.Enabled(InfoLevel) {
		t.Error("debug should not pass an info minimum")
	}
}

func TestLevel_TextRoundTrip(t *testing.T) {
	t.Parallel()

	for _, l := range Levels() {
		text, err := l.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", l, err)
		}
		var back Level
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if back != l {
			t.Errorf("round trip %v -> %q -> %v", l, text, back)
		}
	}

	if _, err := Level(-3).MarshalText(); err == nil {
		t.Error("MarshalText of invalid level should fail")
	}
	var l Level
	if err := l.UnmarshalText([]byte("loud")); err == nil {
		t.Error("UnmarshalText of unknown name should fail")
	}
}

func TestParseLevels(t *testing.T) {
	t.Parallel()

	levels, err := parseLevels([]string{"info", "error"})
	if err != nil {
		t.Fatalf("parseLevels() error = %v", err)
	}
	if len(levels) != 2 || levels[0] != InfoLevel || levels[1] != ErrorLevel {
		t.Errorf("parseLevels() = %v", levels)
	}

	if levels, err := parseLevels(nil); err != nil || levels != nil {
		t.Errorf("parseLevels(nil) = %v, %v; want nil, nil", levels, err)
	}

	if _, err := parseLevels([]string{"info", "nope"}); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("parseLevels() error = %v, want ErrUnknownLevel", err)
	}
}
