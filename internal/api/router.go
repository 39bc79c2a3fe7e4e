// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/lyrisync/internal/middleware"
)

// slowRequest escalates access log lines to warn.
const slowRequest = 2 * time.Second

// Router wires handlers and middleware.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// Setup builds the HTTP handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).Error(http.StatusNotFound, ErrCodeNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AccessLog(slowRequest))
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		r.Post("/show_lyrics", router.handler.ShowLyrics)
		r.Post("/clear_lyrics", router.handler.ClearLyrics)
		r.Post("/toggle_overlay", router.handler.ToggleOverlay)
		r.Post("/start_recording", router.handler.StartRecording)
		r.Post("/stop_recording", router.handler.StopRecording)

		r.Get("/status", router.handler.Status)
		r.Get("/connections", router.handler.Connections)
		r.Get("/ws", router.handler.WebSocket)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
