// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/logpipe/internal/metrics"
)

// flushPollInterval is how often Flush checks for an idle buffer.
const flushPollInterval = 10 * time.Millisecond

// dropWarnEvery controls drop reporting: the first drop and every
// dropWarnEvery-th drop produce one meta warning.
const dropWarnEvery = 1000

// BufferStats is a point-in-time view of the buffer.
type BufferStats struct {
	QueueLength int    `json:"queueLength"`
	DropCount   uint64 `json:"dropCount"`
}

// Buffer is the FIFO between producers and the fan-out. Enqueue never blocks
// on I/O; a single drain goroutine empties the queue batch by batch.
//
// When the queue is full the incoming entry is dropped and queued entries are
// kept.
type Buffer struct {
	maxEntries int
	meta       *Meta
	spawn      func(func()) // starts the drain goroutine

	mu        sync.Mutex
	queue     []queued
	draining  bool
	dropCount uint64
}

// NewBuffer creates a buffer holding at most maxEntries entries.
func NewBuffer(maxEntries int, meta *Meta) *Buffer {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Buffer{
		maxEntries: maxEntries,
		meta:       meta,
		spawn:      func(fn func()) { go fn() },
	}
}

// Enqueue appends e with the transports it must reach and starts a drain if
// none is running. It never blocks on I/O and never panics.
func (b *Buffer) Enqueue(e Entry, transports []Transport) {
	b.mu.Lock()
	if len(b.queue) >= b.maxEntries {
		b.dropCount++
		drops := b.dropCount
		b.mu.Unlock()

		metrics.RecordDrop()
		if drops == 1 || drops%dropWarnEvery == 0 {
			b.meta.Warn(fmt.Sprintf("buffer full, dropped %d %s so far", drops, pluralEntries(drops)), nil)
		}
		return
	}

	b.queue = append(b.queue, queued{entry: e, transports: transports})
	queueLength := len(b.queue)
	startDrain := !b.draining
	if startDrain {
		b.draining = true
	}
	b.mu.Unlock()

	metrics.RecordEnqueue(e.Level.String(), queueLength)
	if startDrain {
		b.spawn(b.drain)
	}
}

// drain empties the queue one whole batch at a time. The caller must have
// set b.draining; drain clears it under the same lock that observes the
// queue empty.
func (b *Buffer) drain() {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.draining = false
			b.mu.Unlock()
			return
		}
		batch := b.queue
		b.queue = nil
		b.mu.Unlock()

		metrics.RecordDrainBatch(len(batch), 0)
		b.dispatch(batch)
	}
}

// dispatch fans a batch out, keeping the drain loop alive if it panics.
func (b *Buffer) dispatch(batch []queued) {
	defer func() {
		if r := recover(); r != nil {
			b.meta.Error("buffer drain failed unexpectedly", fmt.Errorf("panic: %v", r))
		}
	}()
	fanoutBatch(context.Background(), batch, b.meta)
}

// Flush waits until no drain is running, drains any residue synchronously
// and resets the drop counter. It returns ctx.Err() if ctx ends first; writes
// already in flight are not cancelled.
func (b *Buffer) Flush(ctx context.Context) error {
	if b.drainActive() {
		ticker := time.NewTicker(flushPollInterval)
		defer ticker.Stop()
		for b.drainActive() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}

	b.mu.Lock()
	residue := !b.draining && len(b.queue) > 0
	if residue {
		b.draining = true
	}
	b.mu.Unlock()
	if residue {
		b.drain()
	}

	b.mu.Lock()
	b.dropCount = 0
	b.mu.Unlock()
	return nil
}

func (b *Buffer) drainActive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draining
}

// Stats returns the current queue length and drop count.
func (b *Buffer) Stats() BufferStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BufferStats{QueueLength: len(b.queue), DropCount: b.dropCount}
}

func pluralEntries(n uint64) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}
