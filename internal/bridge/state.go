// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package bridge

import "time"

// LyricsState is the current text. Text is stored upper-cased and unwrapped.
type LyricsState struct {
	Text        string    `json:"text"`
	LastUpdated time.Time `json:"last_updated"`
	IsBlank     bool      `json:"is_blank"`
}

// DisplayState is observational state for indicators. It never drives policy.
type DisplayState struct {
	Recording        bool `json:"recording"`
	OverlayOn        bool `json:"overlay_on"`
	ConnectedSources int  `json:"connected_sources"`
	DestinationOK    bool `json:"destination_ok"`
}

// Snapshot is a consistent copy of both states.
type Snapshot struct {
	Lyrics  LyricsState  `json:"lyrics"`
	Display DisplayState `json:"display"`
}
