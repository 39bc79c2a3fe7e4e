// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

/*
Package middleware provides HTTP middleware for the control API.

Key Components:

  - RequestID: UUID request IDs, propagated into the logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation
  - AccessLog: one structured log line per request, warn level when slow

All middleware has the func(http.Handler) http.Handler shape used by chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(500 * time.Millisecond))

Response writers are wrapped with chi's WrapResponseWriter so WebSocket
upgrades (http.Hijacker) keep working behind the stack.
*/
package middleware
