// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

/*
Package destination drives one vMix style video production endpoint over its
HTTP function API.

Commands are GET requests against the API URL with a Function parameter and
optional Input, SelectedName and Value arguments:

	GET http://10.0.0.5:8088/api?Function=SetText&Input=SongTitle&SelectedName=Message.Text&Value=AMAZING+GRACE
	GET http://10.0.0.5:8088/api?Function=OverlayInput1In
	GET http://10.0.0.5:8088/api?Function=StartRecording

A plain GET of the API URL returns the XML status document which Status and
Inputs parse.

Commands are fire and forget. The returned error exists so callers can log
and count failures; no caller branches on it. Status never fails: any
problem yields the zero Status, which reads as "not recording, no overlay".

Every request passes through a per-controller circuit breaker (sony/gobreaker)
so a destination that stopped answering is skipped quickly instead of
holding every fan-out wave for the full request timeout.
*/
package destination
