// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates a UUID when none is sent", func(t *testing.T) {
		t.Parallel()
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if _, err := uuid.Parse(seen); err != nil {
			t.Errorf("expected a UUID in context, got %q", seen)
		}
		if rec.Header().Get(RequestIDHeader) != seen {
			t.Errorf("response header %q does not match context %q", rec.Header().Get(RequestIDHeader), seen)
		}
	})

	t.Run("reuses a well formed upstream id", func(t *testing.T) {
		t.Parallel()
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "edge-42.abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if seen != "edge-42.abc" {
			t.Errorf("context id = %q", seen)
		}
	})

	t.Run("replaces a malformed upstream id", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{"has space", "line\nbreak", strings.Repeat("a", 129)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, bad)
			rec := httptest.NewRecorder()
			RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

			if got := rec.Header().Get(RequestIDHeader); got == bad {
				t.Errorf("malformed id %q was echoed", bad)
			}
		}
	})
}

func TestGetRequestID_Empty(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := GetRequestID(req.Context()); id != "" {
		t.Errorf("expected empty id outside a request, got %q", id)
	}
}
