// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/lyrisync/internal/validation"
)

// Validate checks a normalized configuration. Struct tags cover ranges and
// URL shapes; the remaining rules need the whole config.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	if err := c.validateConnectionNames(); err != nil {
		return err
	}
	return c.validateDurations()
}

// validateConnectionNames rejects duplicates; names key log lines, metrics
// and the status API.
func (c *Config) validateConnectionNames() error {
	seen := make(map[string]int, len(c.Connections))
	for i, conn := range c.Connections {
		key := strings.ToLower(conn.Name)
		if first, ok := seen[key]; ok {
			return fmt.Errorf("connections[%d].name %q duplicates connections[%d]", i, conn.Name, first)
		}
		seen[key] = i
	}
	return nil
}

func (c *Config) validateDurations() error {
	checks := []struct {
		name  string
		value time.Duration
	}{
		{"destination.timeout", c.Destination.Timeout},
		{"destination.wave_timeout", c.Destination.WaveTimeout},
		{"source.initial_backoff", c.Source.InitialBackoff},
		{"source.max_backoff", c.Source.MaxBackoff},
		{"api.read_timeout", c.API.ReadTimeout},
		{"api.write_timeout", c.API.WriteTimeout},
	}
	for _, chk := range checks {
		if chk.value < 0 {
			return fmt.Errorf("%s must not be negative", chk.name)
		}
	}
	if c.Source.MaxBackoff > 0 && c.Source.InitialBackoff > c.Source.MaxBackoff {
		return fmt.Errorf("source.initial_backoff (%s) exceeds source.max_backoff (%s)",
			c.Source.InitialBackoff, c.Source.MaxBackoff)
	}
	if !c.API.RateLimitDisabled && c.API.RateLimitReqs > 0 && c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("api.rate_limit_window must be positive when rate limiting is enabled")
	}
	return nil
}
