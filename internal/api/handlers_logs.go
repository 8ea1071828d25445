// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package api

import (
	"crypto/subtle"
	"errors"
	"io"
	"io/fs"
	"math"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/logpipe/internal/logging"
	"github.com/tomtom215/logpipe/internal/logpipe"
	"github.com/tomtom215/logpipe/internal/metrics"
)

// logFilenamePattern admits rotated file names and nothing that can leave
// the log directory.
var logFilenamePattern = regexp.MustCompile(`^[\w\-~.]+\.log$`)

// LogStatsResponse is the body of GET /api/v1/logs/stats.
type LogStatsResponse struct {
	Enabled     bool     `json:"enabled"`
	QueueLength int      `json:"queueLength"`
	DropCount   uint64   `json:"dropCount"`
	Transports  []string `json:"transports"`
}

// LogFileInfo is one entry of GET /api/v1/logs/files.
type LogFileInfo struct {
	Name   string `json:"name"`
	SizeKB int64  `json:"sizeKb"`
}

// LogStats reports the pipeline buffer state.
func (h *Handler) LogStats(w http.ResponseWriter, r *http.Request) {
	stats := h.pipe.Stats()
	transports := h.pipe.Transports()

	names := make([]string, 0, len(transports))
	for _, t := range transports {
		if !t.Muted() {
			names = append(names, t.Name())
		}
	}

	WriteSuccess(w, r, LogStatsResponse{
		Enabled:     h.pipe.Enabled(),
		QueueLength: stats.QueueLength,
		DropCount:   stats.DropCount,
		Transports:  names,
	})
}

// RequirePullSecret rejects requests whose X-Pull-Secret header does not
// match the configured secret. With no secret configured every request is
// rejected.
func (h *Handler) RequirePullSecret(operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !h.validPullSecret(r.Header.Get(PullSecretHeader)) {
				metrics.RecordLogPull(operation, "unauthorized")
				h.pipe.Warn(r.Context(), "log pull rejected",
					"domain", "service", "operation", operation, "ip", clientAddr(r))
				NewResponseWriter(w, r).Unauthorized("unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) validPullSecret(got string) bool {
	if h.pullSecret == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.pullSecret)) == 1
}

// ListLogFiles lists the *.log files in the log directory, excluding the
// meta-log, sorted by name.
func (h *Handler) ListLogFiles(w http.ResponseWriter, r *http.Request) {
	files, err := listLogFiles(h.logDir)
	if err != nil {
		metrics.RecordLogPull("list", "error")
		logging.Ctx(r.Context()).Error().Err(err).Str("dir", h.logDir).Msg("Failed to list log directory")
		NewResponseWriter(w, r).InternalError("could not read logs directory")
		return
	}

	metrics.RecordLogPull("list", "ok")
	count := len(files)
	NewResponseWriter(w, r).SuccessWithMeta(files, &APIMeta{Count: &count})
}

func listLogFiles(dir string) ([]LogFileInfo, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		// Nothing has been written yet.
		return []LogFileInfo{}, nil
	}
	if err != nil {
		return nil, err
	}

	files := make([]LogFileInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".log") || name == logpipe.MetaFileName {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		files = append(files, LogFileInfo{
			Name:   name,
			SizeKB: int64(math.Round(float64(info.Size()) / 1024)),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// StreamLogFile streams one log file as text/plain.
func (h *Handler) StreamLogFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	f, err := openLogFile(h.logDir, filename)
	switch {
	case errors.Is(err, ErrInvalidLogFilename):
		metrics.RecordLogPull("download", "invalid")
		NewResponseWriter(w, r).BadRequest("invalid filename")
		return
	case errors.Is(err, ErrLogFileNotFound):
		metrics.RecordLogPull("download", "not_found")
		NewResponseWriter(w, r).NotFound("file not found: " + filename)
		return
	case err != nil:
		metrics.RecordLogPull("download", "error")
		logging.Ctx(r.Context()).Error().Err(err).Str("file", filename).Msg("Failed to open log file")
		NewResponseWriter(w, r).InternalError("error reading file")
		return
	}
	defer f.Close()

	metrics.RecordLogPull("download", "ok")
	h.pipe.Info(r.Context(), "log file pulled", "domain", "service", "file", filename)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		// Headers are already sent; the client sees a truncated body.
		logging.Ctx(r.Context()).Warn().Err(err).Str("file", filename).Msg("Log file stream interrupted")
	}
}

func openLogFile(dir, filename string) (*os.File, error) {
	if !logFilenamePattern.MatchString(filename) {
		return nil, ErrInvalidLogFilename
	}

	f, err := os.Open(filepath.Join(dir, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrLogFileNotFound
	}
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, ErrLogFileNotFound
	}
	return f, nil
}

func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
