// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/lyrisync/internal/logging"
)

// AccessLog logs every request at debug level, and at warn level when it
// took longer than slow. A zero slow disables the warn escalation.
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			level := zerolog.DebugLevel
			if slow > 0 && elapsed > slow {
				level = zerolog.WarnLevel
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			logging.Ctx(r.Context()).WithLevel(level).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", elapsed).
				Str("remote", r.RemoteAddr).
				Msg("HTTP request")
		})
	}
}
