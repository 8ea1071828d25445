// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/logpipe/internal/middleware"
)

func TestRouter_HealthLive(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &fakePipeline{}, HandlerConfig{}, nil)
	rec := doGet(h, "/api/v1/health/live", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	if !resp.Success || !ok || data["alive"] != true {
		t.Errorf("response = %+v", resp)
	}
	if resp.Meta == nil || resp.Meta.RequestID == "" {
		t.Error("expected the request id in meta")
	}
	if rec.Header().Get(middleware.RequestIDHeader) != resp.Meta.RequestID {
		t.Errorf("header id %q does not match meta id %q",
			rec.Header().Get(middleware.RequestIDHeader), resp.Meta.RequestID)
	}
}

func TestRouter_UpstreamRequestIDIsEchoed(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &fakePipeline{}, HandlerConfig{}, nil)
	rec := doGet(h, "/api/v1/logs/stats", map[string]string{middleware.RequestIDHeader: "edge-42"})

	if got := rec.Header().Get(middleware.RequestIDHeader); got != "edge-42" {
		t.Errorf("X-Request-ID = %q, want edge-42", got)
	}
}

func TestRouter_NotFound(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &fakePipeline{}, HandlerConfig{}, nil)
	rec := doGet(h, "/api/v2/nothing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Success || resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("response = %+v", resp)
	}
	if !strings.Contains(resp.Error.Message, "/api/v2/nothing") {
		t.Errorf("message = %q", resp.Error.Message)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &fakePipeline{}, HandlerConfig{}, nil)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/logs/stats", nil)
	rec := serveRequest(h, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Error == nil || resp.Error.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("response = %+v", resp)
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &fakePipeline{}, HandlerConfig{}, nil)
	doGet(h, "/api/v1/health/live", nil)

	rec := doGet(h, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("expected request metrics in the exposition")
	}
}

func TestRouter_RequestLogWrapsHandlers(t *testing.T) {
	t.Parallel()

	var seen []string
	requestLog := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, middleware.GetRequestID(r.Context()))
			next.ServeHTTP(w, r)
		})
	}

	h := NewRouter(NewHandler(&fakePipeline{}, HandlerConfig{}), NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitDisabled:  true,
	}), requestLog).SetupChi()

	doGet(h, "/api/v1/health/live", map[string]string{middleware.RequestIDHeader: "abc"})
	if len(seen) != 1 || seen[0] != "abc" {
		t.Errorf("request log saw %v", seen)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &fakePipeline{}, HandlerConfig{}, &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitRequests:  1,
		RateLimitWindow:    time30m,
	})

	if rec := doGet(h, "/api/v1/logs/stats", nil); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	rec := doGet(h, "/api/v1/logs/stats", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Error == nil || resp.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("response = %+v", resp)
	}

	// Health is outside the limited group.
	if rec := doGet(h, "/api/v1/health/live", nil); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}
