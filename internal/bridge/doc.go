// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

/*
Package bridge is the policy core of LyriSync. It turns lyrics source events
and operator commands into destination calls across every configured bundle.

# Model

A Bundle pairs one source listener with one destination controller and the
ordered Mappings (input, field) that receive the text. Bundles are fixed
when the Bridge is built.

The Bridge owns the only shared mutable state, LyricsState and
DisplayState. A single loop started by Run consumes listener events
(through a Relay) and dispatched commands in arrival order, so updates from
one source are never reordered:

	listener -> Relay -> Run loop -> SetText -> Show/Clear -> fan-out wave
	REST/GUI -> Dispatch ---^

# Commands

  - SetText stores the text upper-cased and stamps LastUpdated.
  - Show wraps the stored text and writes it to every mapping of every
    bundle in one concurrent wave, then shows the overlay through the first
    bundle (ForceOn when the overlay is always on).
  - ShowText is SetText followed by Show as a single loop step.
  - Clear writes "" to every mapping and hides the overlay through the first
    bundle unless it is always on or auto out is disabled.
  - ToggleOverlay issues Show on the first bundle; the protocol has no toggle.
  - StartRecording and StopRecording go to the first bundle and update
    DisplayState.Recording optimistically.

A failing destination never stops a wave from reaching the others. Errors
are logged and counted, never returned to the dispatcher.

# Watchers

IdleWatcher clears the display once after AutoClearIdleSeconds without a
new text. HealthWatcher polls the first destination's status and counts
connected sources for observers. Neither drives policy.
*/
package bridge
