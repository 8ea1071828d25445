// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps a thread-safe singleton validator with custom tags used by
// the configuration layer:
//
//   - logprefix: file prefixes for rotated log files ([A-Za-z0-9_.-]+)
//   - logdomain: domain tags used for transport routing ([A-Za-z0-9_.:-]+)
//
// Errors are returned as *StructValidationError, which joins every field error
// into one message and exposes the individual failures through Errors().
//
//	type TransportDef struct {
//	    Type    string   `validate:"required,oneof=console level named"`
//	    Prefix  string   `validate:"omitempty,logprefix"`
//	    Domains []string `validate:"dive,logdomain"`
//	}
//
//	if err := validation.ValidateStruct(&def); err != nil {
//	    return fmt.Errorf("invalid transport definition: %w", err)
//	}
package validation
