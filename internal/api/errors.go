// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package api

import "errors"

// Common API errors
var (
	// ErrInvalidLogFilename indicates a requested name outside the allowed pattern
	ErrInvalidLogFilename = errors.New("invalid filename")

	// ErrLogFileNotFound indicates the requested log file does not exist
	ErrLogFileNotFound = errors.New("log file not found")
)
