// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

/*
Package logging provides the process-wide zerolog logger for LyriSync.

Every component logs through the package-level helpers so that level,
format and caller settings are applied in one place:

	logging.Init(logging.Config{Level: "debug", Format: "console"})
	logging.Info().Str("source", name).Msg("Connected to lyrics source")

Components that log often take a child logger once:

	log := logging.Component("bridge")
	log.Debug().Int("bundles", n).Msg("Fan-out wave")

Request scoped code uses Ctx, which adds request_id and correlation_id
fields when the context carries them.

# slog bridge

Libraries that expect a *slog.Logger (sutureslog in the supervisor tree)
receive NewSlogLogger, whose handler forwards records to zerolog.

# Environment

  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: include file:line in each entry (default: false)

Always finish an event chain with Msg or Send, otherwise nothing is written.
*/
package logging
