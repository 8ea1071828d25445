// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/logpipe/internal/validation"
)

// Validate checks that the configuration is internally consistent.
// Struct tags are checked first, then the rules tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateTransports(); err != nil {
		return err
	}

	return c.validateLogPuller()
}

// validateTransports rejects duplicate transport names, which would make
// mute keys and meta reports ambiguous.
func (c *Config) validateTransports() error {
	seen := make(map[string]int, len(c.Log.Transports))
	for i, def := range c.Log.Transports {
		name := strings.ToLower(TransportName(def))
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("log.transports[%d] duplicates the name %q of log.transports[%d]", i, name, prev)
		}
		seen[name] = i
	}
	return nil
}

// minPullSecretLength bounds how guessable the log puller secret may be.
const minPullSecretLength = 16

// validateLogPuller rejects short pull secrets. An empty secret is allowed
// and keeps the log file endpoints closed.
func (c *Config) validateLogPuller() error {
	secret := c.LogPuller.PullSecret
	if secret != "" && len(secret) < minPullSecretLength {
		return fmt.Errorf("LOG_PULL_SECRET must be at least %d characters", minPullSecretLength)
	}
	return nil
}

// TransportName returns the effective name of a transport definition:
// the explicit name, "console", "level-<level>" or "named-<prefix>".
func TransportName(def TransportDef) string {
	if def.Name != "" {
		return def.Name
	}
	switch def.Type {
	case "console":
		return "console"
	case "level":
		return "level-" + strings.ToLower(def.Level)
	default:
		return "named-" + strings.TrimSuffix(def.Prefix, "-")
	}
}
