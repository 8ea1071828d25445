// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package logpipe

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tomtom215/logpipe/internal/metrics"
)

// MaxOverflowIndex is the last overflow suffix tried for one prefix and day.
const MaxOverflowIndex = 999

const bytesPerMB = 1024 * 1024

// Rotator resolves the file a prefix should append to right now. It keeps no
// state between calls, so a directory removed from under it is recreated on
// the next resolution.
//
// Files are named <prefix><YYYY-MM-DD>.log, then <prefix><YYYY-MM-DD>~1.log
// and so on once the previous file reaches the size threshold.
type Rotator struct {
	dir       string
	maxSizeMB float64
	meta      *Meta
	now       func() time.Time
}

// NewRotator creates a resolver for dir with a size threshold in megabytes.
func NewRotator(dir string, maxFileSizeMB float64, meta *Meta) *Rotator {
	return &Rotator{
		dir:       dir,
		maxSizeMB: maxFileSizeMB,
		meta:      meta,
		now:       time.Now,
	}
}

// Dir returns the directory files are resolved in.
func (r *Rotator) Dir() string {
	return r.dir
}

// Resolve returns the path the next line for prefix should be appended to.
// It never fails: when every overflow slot up to MaxOverflowIndex is full it
// reports to the meta-log and returns the last candidate.
func (r *Rotator) Resolve(prefix string) string {
	date := r.now().UTC().Format(time.DateOnly)

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		r.meta.Error("rotation: cannot create log directory "+r.dir, err)
	}

	var path string
	for index := 0; index <= MaxOverflowIndex; index++ {
		path = r.buildPath(prefix, date, index)
		info, err := os.Stat(path)
		if err != nil || r.hasRoom(info.Size()) {
			metrics.RecordRotation(prefix, index, false)
			return path
		}
	}

	r.meta.Error(fmt.Sprintf("rotation: more than %d files for prefix %q on %s", MaxOverflowIndex, prefix, date), nil)
	metrics.RecordRotation(prefix, MaxOverflowIndex, true)
	return path
}

func (r *Rotator) hasRoom(size int64) bool {
	return float64(size)/bytesPerMB < r.maxSizeMB
}

func (r *Rotator) buildPath(prefix, date string, index int) string {
	name := prefix + date
	if index > 0 {
		name += "~" + strconv.Itoa(index)
	}
	return filepath.Join(r.dir, name+".log")
}
