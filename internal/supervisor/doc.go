// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

/*
Package supervisor runs LyriSync's long-lived components under a suture v4
supervisor tree.

# Tree

	lyrisync (root)
	├── sources-layer   one listener service per configured connection
	├── core-layer      bridge loop, idle watcher, health watcher, status feed hub
	└── api-layer       HTTP control server

Layers isolate failures: a source that keeps failing to connect backs off
inside sources-layer without restarting the bridge loop or the API.

Supervisor events are logged through sutureslog into the zerolog pipeline
(see logging.NewSlogLogger).

# Services

The wrappers in the services subpackage translate component lifecycles to
suture's Serve(ctx) pattern and map terminal errors to
suture.ErrDoNotRestart or suture.ErrTerminateSupervisorTree.
*/
package supervisor
