// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/logpipe/internal/logpipe"
)

const testSecret = "0123456789abcdef-secret"

type namedTransport struct {
	name  string
	muted bool
}

func (t *namedTransport) Name() string { return t.name }

func (t *namedTransport) Muted() bool { return t.muted }

func (t *namedTransport) Write(context.Context, logpipe.Entry) error { return nil }

type loggedEvent struct {
	level string
	msg   string
	kv    []any
}

// fakePipeline records service events instead of buffering them.
type fakePipeline struct {
	enabled    bool
	stats      logpipe.BufferStats
	transports []logpipe.Transport

	mu     sync.Mutex
	events []loggedEvent
}

func (p *fakePipeline) Enabled() bool { return p.enabled }

func (p *fakePipeline) Stats() logpipe.BufferStats { return p.stats }

func (p *fakePipeline) Transports() []logpipe.Transport { return p.transports }

func (p *fakePipeline) Info(_ context.Context, msg string, kv ...any) {
	p.record("info", msg, kv)
}

func (p *fakePipeline) Warn(_ context.Context, msg string, kv ...any) {
	p.record("warn", msg, kv)
}

func (p *fakePipeline) record(level, msg string, kv []any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, loggedEvent{level: level, msg: msg, kv: kv})
}

func (p *fakePipeline) recorded() []loggedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]loggedEvent(nil), p.events...)
}

func newTestRouter(t *testing.T, pipe Pipeline, cfg HandlerConfig, mwCfg *ChiMiddlewareConfig) http.Handler {
	t.Helper()
	if mwCfg == nil {
		mwCfg = &ChiMiddlewareConfig{
			CORSAllowedOrigins: []string{"*"},
			RateLimitRequests:  1000,
			RateLimitWindow:    time.Minute,
		}
	}
	return NewRouter(NewHandler(pipe, cfg), NewChiMiddleware(mwCfg), nil).SetupChi()
}

func doGet(h http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response %q: %v", rec.Body.String(), err)
	}
	return resp
}
