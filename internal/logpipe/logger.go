// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tomtom215/logpipe/internal/config"
	"github.com/tomtom215/logpipe/internal/logging"
	"github.com/tomtom215/logpipe/internal/metrics"
)

// DefaultFlushTimeout bounds Flush when neither the call nor the
// configuration sets a timeout.
const DefaultFlushTimeout = 2 * time.Second

// ErrFlushTimeout is returned by Flush when the buffer did not drain in time.
var ErrFlushTimeout = errors.New("logpipe: flush timed out")

// Options configures a Logger.
type Options struct {
	Config     config.LogConfig
	Transports []Transport
	Meta       *Meta // default: NewMeta(Config.Dir, os.Stderr)

	// Now overrides the clock used to stamp entries.
	Now func() time.Time
}

// FlushOptions configures one Flush call.
type FlushOptions struct {
	Timeout time.Duration // zero uses the configured flush timeout
}

// Logger is the pipeline's entry point. Emission methods stamp and enqueue
// entries and return immediately; delivery happens on the drain goroutine.
type Logger struct {
	enabled      bool
	flushTimeout time.Duration
	buffer       *Buffer
	meta         *Meta
	now          func() time.Time

	mu         sync.RWMutex
	transports []Transport
}

// New creates a Logger from explicit transports.
func New(opts Options) *Logger {
	meta := opts.Meta
	if meta == nil {
		meta = NewMeta(opts.Config.Dir, nil)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	flushTimeout := opts.Config.FlushTimeout
	if flushTimeout <= 0 {
		flushTimeout = DefaultFlushTimeout
	}

	return &Logger{
		enabled:      opts.Config.Enabled,
		flushTimeout: flushTimeout,
		buffer:       NewBuffer(opts.Config.BufferMaxEntries, meta),
		meta:         meta,
		now:          now,
		transports:   append([]Transport(nil), opts.Transports...),
	}
}

// NewFromConfig builds the meta-logger, rotator and transports described by
// cfg and returns a Logger over them. out and errOut are the console
// streams; nil means os.Stdout and os.Stderr.
func NewFromConfig(cfg config.LogConfig, out, errOut io.Writer) (*Logger, error) {
	meta := NewMeta(cfg.Dir, errOut)
	transports, err := BuildTransports(cfg.Transports, BuildDeps{
		Sinks:   SinksFromConfig(cfg),
		Rotator: NewRotator(cfg.Dir, cfg.MaxFileSizeMB, meta),
		Meta:    meta,
		Out:     out,
		ErrOut:  errOut,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build transports: %w", err)
	}
	return New(Options{Config: cfg, Transports: transports, Meta: meta}), nil
}

// Enabled reports whether the pipeline accepts entries at all.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Meta returns the logger's meta channel.
func (l *Logger) Meta() *Meta {
	return l.meta
}

// Transports returns the transports future entries are enqueued with.
func (l *Logger) Transports() []Transport {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Transport(nil), l.transports...)
}

// SetTransports replaces the transport list for entries logged from now on.
// Entries already queued keep the list they were enqueued with.
func (l *Logger) SetTransports(transports []Transport) {
	snapshot := append([]Transport(nil), transports...)
	l.mu.Lock()
	l.transports = snapshot
	l.mu.Unlock()
}

// Trace logs msg at trace level. kv holds alternating keys and values; the
// keys "domain" (string or []string) and "requestId" fill the matching
// entry fields instead of metadata.
func (l *Logger) Trace(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, TraceLevel, msg, kv)
}

// Debug logs msg at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, DebugLevel, msg, kv)
}

// Info logs msg at info level.
//
//	pipe.Info(ctx, "order stored", "domain", "service", "orderId", id)
func (l *Logger) Info(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, InfoLevel, msg, kv)
}

// Warn logs msg at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, WarnLevel, msg, kv)
}

// Error logs msg at error level.
func (l *Logger) Error(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, ErrorLevel, msg, kv)
}

// Fatal logs msg at fatal level. It does not exit the process.
func (l *Logger) Fatal(ctx context.Context, msg string, kv ...any) {
	l.emit(ctx, FatalLevel, msg, kv)
}

func (l *Logger) emit(ctx context.Context, level Level, msg string, kv []any) {
	if !l.enabled {
		return
	}
	e := Entry{
		Level:     level,
		Msg:       msg,
		Timestamp: l.now().UnixMilli(),
		Fields:    Fields(kv...),
	}
	e = liftReserved(e)
	l.submit(ctx, e)
}

// Log submits a pre-built entry. A zero Timestamp is stamped now; a set one
// is kept. The "domain" and "requestId" keys in Fields are lifted like the
// key/value pairs of the emission methods. A missing RequestID is taken from
// ctx.
func (l *Logger) Log(ctx context.Context, e Entry) {
	if !l.enabled {
		return
	}
	e = e.clone()
	if e.Timestamp == 0 {
		e.Timestamp = l.now().UnixMilli()
	}
	// Explicit Domain and RequestID win over the same keys in Fields.
	lifted := liftReserved(e)
	if len(e.Domain) == 0 {
		e.Domain = lifted.Domain
	}
	if e.RequestID == "" {
		e.RequestID = lifted.RequestID
	}
	e.Fields = lifted.Fields
	l.submit(ctx, e)
}

func (l *Logger) submit(ctx context.Context, e Entry) {
	if e.RequestID == "" {
		e.RequestID = logging.RequestIDFromContext(ctx)
	}
	l.mu.RLock()
	transports := l.transports
	l.mu.RUnlock()
	l.buffer.Enqueue(e, transports)
}

// liftReserved moves the "domain" and "requestId" metadata keys into the
// entry fields. Other reserved keys stay in Fields and are not serialized.
func liftReserved(e Entry) Entry {
	if e.Fields == nil {
		return e
	}
	if raw, ok := e.Fields[KeyDomain]; ok {
		e.Domain = domainsOf(raw)
		delete(e.Fields, KeyDomain)
	}
	if raw, ok := e.Fields[KeyRequestID]; ok {
		if id, ok := raw.(string); ok {
			e.RequestID = id
		} else if raw != nil {
			e.RequestID = fmt.Sprint(raw)
		}
		delete(e.Fields, KeyRequestID)
	}
	if len(e.Fields) == 0 {
		e.Fields = nil
	}
	return e
}

func domainsOf(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	case []any:
		domains := make([]string, 0, len(v))
		for _, d := range v {
			domains = append(domains, fmt.Sprint(d))
		}
		return domains
	default:
		return []string{fmt.Sprint(v)}
	}
}

// Flush drains the buffer, waiting at most opts.Timeout (or the configured
// flush timeout). On timeout it reports to the meta-log and returns
// ErrFlushTimeout; writes already in flight keep running.
func (l *Logger) Flush(ctx context.Context, opts FlushOptions) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = l.flushTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := l.buffer.Flush(ctx)
	metrics.RecordFlush(time.Since(start), err)
	if err == nil {
		return nil
	}

	l.meta.Warn("flush did not complete cleanly", err)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrFlushTimeout, timeout)
	}
	return err
}

// Stats returns the buffer's queue length and drop count.
func (l *Logger) Stats() BufferStats {
	return l.buffer.Stats()
}
