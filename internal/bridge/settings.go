// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package bridge

import (
	"time"

	"github.com/tomtom215/lyrisync/internal/destination"
)

// MinCharsPerLine is the smallest accepted line width.
const MinCharsPerLine = 10

// Settings is the frozen policy snapshot for one run.
type Settings struct {
	MaxCharsPerLine       int  `json:"max_chars_per_line"`
	OverlayChannel        int  `json:"overlay_channel"`
	AutoOverlayOnSend     bool `json:"auto_overlay_on_send"`
	AutoOverlayOutOnClear bool `json:"auto_overlay_out_on_clear"`
	OverlayAlwaysOn       bool `json:"overlay_always_on"`
	AutoClearIdleSeconds  int  `json:"auto_clear_idle_sec"`
	ClearOnBlank          bool `json:"clear_on_blank"`
	PollIntervalSeconds   int  `json:"poll_interval_sec"`
}

// DefaultSettings matches a fresh installation.
func DefaultSettings() Settings {
	return Settings{
		MaxCharsPerLine:       36,
		OverlayChannel:        1,
		AutoOverlayOnSend:     true,
		AutoOverlayOutOnClear: true,
		ClearOnBlank:          true,
		PollIntervalSeconds:   2,
	}
}

// Normalize clamps every numeric setting into its valid range.
func (s Settings) Normalize() Settings {
	s.OverlayChannel = destination.ClampChannel(s.OverlayChannel)
	if s.MaxCharsPerLine < MinCharsPerLine {
		s.MaxCharsPerLine = MinCharsPerLine
	}
	if s.PollIntervalSeconds < 1 {
		s.PollIntervalSeconds = 1
	}
	if s.AutoClearIdleSeconds < 0 {
		s.AutoClearIdleSeconds = 0
	}
	return s
}

// PollInterval returns PollIntervalSeconds as a duration, at least one second.
func (s Settings) PollInterval() time.Duration {
	if s.PollIntervalSeconds < 1 {
		return time.Second
	}
	return time.Duration(s.PollIntervalSeconds) * time.Second
}

// IdleTimeout returns the auto-clear delay; zero disables auto-clear.
func (s Settings) IdleTimeout() time.Duration {
	if s.AutoClearIdleSeconds <= 0 {
		return 0
	}
	return time.Duration(s.AutoClearIdleSeconds) * time.Second
}
