// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ConsoleName is the name and mute key of the console transport.
const ConsoleName = "console"

// ConsoleOptions configures a ConsoleTransport.
type ConsoleOptions struct {
	Sinks   Sinks
	Muted   *bool
	Out     io.Writer // default os.Stdout
	ErrOut  io.Writer // default os.Stderr; receives error and fatal
	NoColor bool
}

// ConsoleTransport writes entries to the process streams. Development mode
// renders human-readable lines through zerolog's ConsoleWriter; production
// writes the JSON line.
type ConsoleTransport struct {
	sinks   Sinks
	muted   bool
	out     io.Writer
	errOut  io.Writer
	noColor bool

	mu sync.Mutex
}

// NewConsoleTransport creates the console transport.
func NewConsoleTransport(opts ConsoleOptions) *ConsoleTransport {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	return &ConsoleTransport{
		sinks:   opts.Sinks,
		muted:   resolveMuted(opts.Muted, opts.Sinks.Muted, ConsoleName),
		out:     opts.Out,
		errOut:  opts.ErrOut,
		noColor: opts.NoColor,
	}
}

func (t *ConsoleTransport) Name() string { return ConsoleName }

func (t *ConsoleTransport) Muted() bool { return t.muted }

// Write renders e to stdout, or stderr for error and fatal.
func (t *ConsoleTransport) Write(_ context.Context, e Entry) error {
	if !ShouldReceive(t, e, t.sinks.Routing) {
		return nil
	}
	if !t.sinks.Console {
		return nil
	}

	var line []byte
	if t.sinks.Development {
		line = t.renderDev(e)
	} else {
		line = e.jsonLine()
	}

	w := t.out
	if e.Level >= ErrorLevel {
		w = t.errOut
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := w.Write(line)
	return err
}

// renderDev formats e with zerolog's ConsoleWriter into a buffer so write
// errors surface to the caller instead of zerolog's error handler.
func (t *ConsoleTransport) renderDev(e Entry) []byte {
	var buf bytes.Buffer
	cw := zerolog.ConsoleWriter{
		Out:        &buf,
		NoColor:    t.noColor,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	logger := zerolog.New(cw)

	event := logger.WithLevel(e.Level.zerologLevel())
	if event == nil {
		// zerolog's global level filters this severity.
		return e.jsonLine()
	}
	event = event.Time(zerolog.TimestampFieldName, e.Time().Truncate(time.Millisecond))
	switch len(e.Domain) {
	case 0:
	case 1:
		event = event.Str(KeyDomain, e.Domain[0])
	default:
		event = event.Strs(KeyDomain, e.Domain)
	}
	if e.RequestID != "" {
		event = event.Str(KeyRequestID, e.RequestID)
	}
	for _, k := range e.extraKeys() {
		v := e.Fields[k]
		if err, ok := v.(error); ok {
			event = event.AnErr(k, err)
			continue
		}
		event = event.Interface(k, v)
	}
	event.Msg(e.Msg)

	return buf.Bytes()
}
