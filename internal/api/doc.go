// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

/*
Package api serves the local REST control API and the status feed.

The paths keep the layout of earlier LyriSync releases so existing
stream-deck and macro integrations keep working:

	POST /api/show_lyrics      optional body {"text": "..."}; sets the text first
	POST /api/clear_lyrics
	POST /api/toggle_overlay
	POST /api/start_recording
	POST /api/stop_recording
	GET  /api/status           lyrics and display snapshot
	GET  /api/connections      configured bundles and their health
	GET  /api/ws               WebSocket status feed
	GET  /api/health/live      liveness probe
	GET  /metrics              Prometheus metrics

Every JSON response uses the envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "...", "message": "..."}, "meta": {...}}

Command endpoints return once the bridge loop has executed the command.
Destination failures are not reported to the caller; the display state on
/api/status and the status feed reflect the outcome.
*/
package api
