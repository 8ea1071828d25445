// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordEnqueue(t *testing.T) {
	before := testutil.ToFloat64(LogEntriesEnqueued.WithLabelValues("warn"))

	RecordEnqueue("warn", 7)

	if got := testutil.ToFloat64(LogEntriesEnqueued.WithLabelValues("warn")); got != before+1 {
		t.Errorf("enqueued{warn} = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(LogQueueLength); got != 7 {
		t.Errorf("queue length = %v, want 7", got)
	}
}

func TestRecordDrop(t *testing.T) {
	before := testutil.ToFloat64(LogEntriesDropped)
	RecordDrop()
	RecordDrop()
	if got := testutil.ToFloat64(LogEntriesDropped); got != before+2 {
		t.Errorf("dropped = %v, want %v", got, before+2)
	}
}

func TestRecordTransportWrite(t *testing.T) {
	tests := []struct {
		name      string
		transport string
		err       error
	}{
		{"success", "metrics-test-ok", nil},
		{"failure", "metrics-test-fail", errors.New("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writes := testutil.ToFloat64(LogTransportWrites.WithLabelValues(tt.transport))
			failures := testutil.ToFloat64(LogTransportFailures.WithLabelValues(tt.transport))

			RecordTransportWrite(tt.transport, tt.err)

			gotWrites := testutil.ToFloat64(LogTransportWrites.WithLabelValues(tt.transport))
			gotFailures := testutil.ToFloat64(LogTransportFailures.WithLabelValues(tt.transport))
			if tt.err == nil && gotWrites != writes+1 {
				t.Errorf("writes = %v, want %v", gotWrites, writes+1)
			}
			if tt.err != nil && gotFailures != failures+1 {
				t.Errorf("failures = %v, want %v", gotFailures, failures+1)
			}
		})
	}
}

func TestRecordRotation(t *testing.T) {
	prefix := "metrics-test-"
	overflows := testutil.ToFloat64(LogRotationOverflows.WithLabelValues(prefix))
	exhausted := testutil.ToFloat64(LogRotationExhausted.WithLabelValues(prefix))

	RecordRotation(prefix, 0, false)
	RecordRotation(prefix, 3, false)
	RecordRotation(prefix, 999, true)

	if got := testutil.ToFloat64(LogRotationOverflows.WithLabelValues(prefix)); got != overflows+2 {
		t.Errorf("overflows = %v, want %v", got, overflows+2)
	}
	if got := testutil.ToFloat64(LogRotationExhausted.WithLabelValues(prefix)); got != exhausted+1 {
		t.Errorf("exhausted = %v, want %v", got, exhausted+1)
	}
}

func TestRecordFlush(t *testing.T) {
	before := testutil.CollectAndCount(LogFlushDuration)
	RecordFlush(5*time.Millisecond, nil)
	RecordFlush(2*time.Second, errors.New("deadline"))
	if got := testutil.CollectAndCount(LogFlushDuration); got < before || got > 2 {
		t.Errorf("flush series = %d, want at most 2 (ok, timeout)", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/logs/stats", "200"))
	RecordAPIRequest("GET", "/api/v1/logs/stats", "200", 3*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/logs/stats", "200")); got != before+1 {
		t.Errorf("requests = %v, want %v", got, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}

func TestRecordMetaEventAndLogPull(t *testing.T) {
	meta := testutil.ToFloat64(LogMetaEvents.WithLabelValues("error"))
	pulls := testutil.ToFloat64(LogPullerRequests.WithLabelValues("list", "unauthorized"))

	RecordMetaEvent("error")
	RecordLogPull("list", "unauthorized")

	if got := testutil.ToFloat64(LogMetaEvents.WithLabelValues("error")); got != meta+1 {
		t.Errorf("meta events = %v, want %v", got, meta+1)
	}
	if got := testutil.ToFloat64(LogPullerRequests.WithLabelValues("list", "unauthorized")); got != pulls+1 {
		t.Errorf("puller requests = %v, want %v", got, pulls+1)
	}
}
