// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

/*
Package main is the entry point for LyriSync.

LyriSync listens to one or more presentation sources (OpenLP) over
WebSocket and mirrors the live lyric text into title fields on one or more
video switchers (vMix). A local REST API drives the same actions from
stream decks and macros.

# Application Architecture

	RootSupervisor ("lyrisync")
	├── sources-layer
	│   └── source:<connection>   one per configured connection
	├── core-layer
	│   ├── bridge-loop           serial dispatch of every command
	│   ├── idle-watcher          auto-clear after inactivity
	│   ├── health-watcher        destination status polling
	│   └── websocket-hub         status feed for dashboards
	└── api-layer
	    └── http-server           chi router on settings.api_port

Initialization order:

 1. Configuration: koanf v2 (defaults, YAML file, LYRISYNC_* environment)
 2. Logging: zerolog, JSON or console
 3. Bundles: one source listener and one destination controller per connection
 4. Bridge: dispatch loop over every bundle
 5. Status feed hub subscribed to bridge state changes
 6. Supervisor tree and HTTP server

# Commands

	lyrisync serve                     run the bridge (default config search)
	lyrisync serve --config my.yaml    run with an explicit config file
	lyrisync discover                  list switcher inputs and their text fields
	lyrisync connections export        print connections as importable JSON
	lyrisync connections check --probe validate config and test each endpoint
	lyrisync version

# Signal Handling

SIGINT and SIGTERM cancel the tree. Listeners stop, the bridge loop finishes
the command in flight, the HTTP server drains for api.shutdown_timeout, and
every destination controller is closed.
*/
package main
