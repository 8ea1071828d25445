// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/tomtom215/logpipe/internal/metrics"
)

// queued pairs an entry with the transports it was enqueued for.
type queued struct {
	entry      Entry
	transports []Transport
}

// lane is the ordered work one transport receives from a batch.
type lane struct {
	transport Transport
	keyed     bool // transport's dynamic type is comparable
	entries   []Entry
}

// fanoutBatch delivers a drained batch. One entry is a batch of one. Each
// distinct transport gets its own goroutine and sees its entries in batch
// order; different transports run concurrently. Failures and panics are
// reported to meta per transport and never reach the other lanes.
func fanoutBatch(ctx context.Context, batch []queued, meta *Meta) {
	var lanes []*lane

	for _, q := range batch {
		for _, t := range q.transports {
			if t == nil || t.Muted() {
				continue
			}
			l := findLane(lanes, t)
			if l == nil {
				l = &lane{transport: t, keyed: reflect.TypeOf(t).Comparable()}
				lanes = append(lanes, l)
			}
			l.entries = append(l.entries, q.entry)
		}
	}

	if len(lanes) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, l := range lanes {
		wg.Add(1)
		go func(l *lane) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					meta.Error("transport lane failed unexpectedly", fmt.Errorf("panic: %v", r))
				}
			}()
			for _, e := range l.entries {
				if err := safeWrite(ctx, l.transport, e); err != nil {
					reportRejected(meta, l.transport, e, err)
				}
			}
		}(l)
	}
	wg.Wait()
}

// findLane returns the lane already holding t. Transports whose dynamic type
// is not comparable cannot be identified, so each occurrence gets a lane of
// its own and ordering holds only per occurrence.
func findLane(lanes []*lane, t Transport) *lane {
	if !reflect.TypeOf(t).Comparable() {
		return nil
	}
	for _, l := range lanes {
		if l.keyed && l.transport == t {
			return l
		}
	}
	return nil
}

// safeWrite calls t.Write and turns a panic into an error.
func safeWrite(ctx context.Context, t Transport, e Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transport panicked: %v", r)
		}
	}()
	return t.Write(ctx, e)
}

func reportRejected(meta *Meta, t Transport, e Entry, err error) {
	metrics.RecordTransportWrite(t.Name(), err)
	meta.Error(fmt.Sprintf("transport %q rejected entry (level: %s)", t.Name(), e.Level), err)
}
