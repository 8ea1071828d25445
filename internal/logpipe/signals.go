// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// HandleSignals flushes the logger on SIGINT or SIGTERM and then calls
// exit(0). The returned stop function unregisters the handler. Binaries that
// run under the supervisor tree do not need this; the tree flushes on its
// own shutdown path.
func (l *Logger) HandleSignals(exit func(int)) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	stopWatch := l.watchSignals(sigCh, exit)
	return func() {
		signal.Stop(sigCh)
		stopWatch()
	}
}

// watchSignals runs the flush-then-exit sequence for the first value on sigCh.
func (l *Logger) watchSignals(sigCh <-chan os.Signal, exit func(int)) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			select {
			case <-done:
				return
			default:
			}
			_ = l.Flush(context.Background(), FlushOptions{})
			exit(0)
		case <-done:
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
