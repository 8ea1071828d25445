// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/logpipe/internal/metrics"
)

// MetaFileName is the meta-log file inside the log directory.
const MetaFileName = "logger-meta.log"

// Meta is the pipeline's own failure channel. Every line goes to stderr
// first, then one best-effort append to <dir>/logger-meta.log. Meta never
// calls back into the pipeline and never returns an error.
type Meta struct {
	dir    string
	stderr io.Writer
	now    func() time.Time

	mu sync.Mutex
}

type metaLine struct {
	Level     string `json:"level"`
	Msg       string `json:"msg"`
	Err       string `json:"err,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NewMeta creates a meta-logger writing to stderr and dir. A nil stderr
// means os.Stderr; an empty dir disables the file copy.
func NewMeta(dir string, stderr io.Writer) *Meta {
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Meta{dir: dir, stderr: stderr, now: time.Now}
}

// stderrMeta backs a nil *Meta.
var stderrMeta = NewMeta("", nil)

// Path returns the meta-log file path, or "" when the file copy is disabled.
func (m *Meta) Path() string {
	if m == nil || m.dir == "" {
		return ""
	}
	return filepath.Join(m.dir, MetaFileName)
}

// Warn records a recoverable pipeline problem. err may be nil.
func (m *Meta) Warn(msg string, err error) {
	m.write("warn", msg, err)
}

// Error records a pipeline failure. err may be nil.
func (m *Meta) Error(msg string, err error) {
	m.write("error", msg, err)
}

func (m *Meta) write(level, msg string, err error) {
	if m == nil {
		m = stderrMeta
	}

	entry := metaLine{Level: level, Msg: msg, Timestamp: m.now().UnixMilli()}
	if err != nil {
		entry.Err = err.Error()
	}
	line, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		return
	}
	line = append(line, '\n')

	metrics.RecordMetaEvent(level)

	m.mu.Lock()
	defer m.mu.Unlock()

	_, _ = m.stderr.Write(line)

	if m.dir == "" {
		return
	}
	// File failures are swallowed: reporting them would recurse.
	if mkErr := os.MkdirAll(m.dir, 0o755); mkErr != nil {
		return
	}
	f, openErr := os.OpenFile(filepath.Join(m.dir, MetaFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if openErr != nil {
		return
	}
	_, _ = f.Write(line)
	_ = f.Close()
}
