// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

/*
Package services provides suture.Service wrappers for LyriSync components.

Source (SourceService):
  - Wraps a source listener's Serve loop
  - An explicit Stop ends supervision instead of triggering a restart

Bridge loop (LoopService):
  - Wraps the single-use bridge loop
  - A loop that cannot be restarted terminates the tree so the process exits
    instead of serving an API with no dispatch loop behind it

HTTP server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - A port that cannot be bound terminates the tree

Components that already satisfy suture.Service (the status feed hub and the
watchers) are added to the tree directly.
*/
package services
