// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

/*
Package metrics declares the Prometheus collectors exported on /metrics.

Collectors are registered with the default registry through promauto when
the package is loaded, so components update them directly:

	metrics.SourceConnects.WithLabelValues(name).Inc()

# Families

  - lyrisync_source_*: listener connects, disconnects, frames and connected state
  - lyrisync_destination_*: commands by function and result, latency, circuit breaker
  - lyrisync_bridge_*: dispatched commands, fan-out wave size and failures, idle clears
  - lyrisync_api_*: REST requests, latency, rate limit hits
  - lyrisync_websocket_*: status feed clients and messages

Label values are bounded by configuration (source and destination names,
a fixed set of functions), never by user input.
*/
package metrics
