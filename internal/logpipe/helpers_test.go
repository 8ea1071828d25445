// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/logpipe/internal/config"
)

// recorder is an in-memory transport. Routing is left to gate; nil accepts
// everything.
type recorder struct {
	name   string
	muted  bool
	err    error
	panics bool
	gate   func(Entry) bool
	block  chan struct{} // when set, Write waits for it to close

	mu      sync.Mutex
	entries []Entry
}

func newRecorder(name string) *recorder {
	return &recorder{name: name}
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Muted() bool { return r.muted }

func (r *recorder) Write(_ context.Context, e Entry) error {
	if r.block != nil {
		<-r.block
	}
	if r.panics {
		panic("boom")
	}
	if r.gate != nil && !r.gate(e) {
		return nil
	}
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
	return r.err
}

func (r *recorder) got() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

func (r *recorder) msgs() []string {
	var out []string
	for _, e := range r.got() {
		out = append(out, e.Msg)
	}
	return out
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) lines() []string {
	s := strings.TrimSpace(b.String())
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// newTestMeta returns a meta-logger whose stderr is captured and whose file
// copy lives in a temp dir.
func newTestMeta(t *testing.T) (*Meta, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	return NewMeta(t.TempDir(), out), out
}

func testSinks() Sinks {
	return Sinks{
		Routing: RoutingConfig{Enabled: true, MinLevel: TraceLevel},
		Console: true,
		File:    true,
	}
}

func testLogConfig() config.LogConfig {
	return config.LogConfig{
		Enabled:          true,
		Console:          true,
		File:             true,
		MinLevel:         "trace",
		MaxFileSizeMB:    50,
		BufferMaxEntries: 1000,
		FlushTimeout:     time.Second,
		Environment:      config.EnvDevelopment,
	}
}

func newTestLogger(t *testing.T, transports ...Transport) (*Logger, *syncBuffer) {
	t.Helper()
	meta, metaOut := newTestMeta(t)
	l := New(Options{Config: testLogConfig(), Transports: transports, Meta: meta})
	return l, metaOut
}

func flush(t *testing.T, l *Logger) {
	t.Helper()
	if err := l.Flush(context.Background(), FlushOptions{Timeout: 5 * time.Second}); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

// readLines returns the lines of every file in dir whose name starts with
// prefix, in name order.
func readLines(t *testing.T, dir, prefix string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"*.log"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	var lines []string
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			t.Fatalf("read %s: %v", m, err)
		}
		for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

func boolPtr(b bool) *bool { return &b }
