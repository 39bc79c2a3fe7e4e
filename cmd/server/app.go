// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/lyrisync/internal/api"
	"github.com/tomtom215/lyrisync/internal/bridge"
	"github.com/tomtom215/lyrisync/internal/config"
	"github.com/tomtom215/lyrisync/internal/destination"
	"github.com/tomtom215/lyrisync/internal/source"
	ws "github.com/tomtom215/lyrisync/internal/websocket"
)

// app holds the wired components of a serve run.
type app struct {
	cfg         *config.Config
	listeners   []*source.Listener
	bridge      *bridge.Bridge
	hub         *ws.Hub
	server      *http.Server
	unsubscribe func()
}

func newDialer(cfg *config.Config) source.WebSocketDialer {
	return source.WebSocketDialer{
		HandshakeTimeout: cfg.Source.HandshakeTimeout,
		PingInterval:     cfg.Source.PingInterval,
		ReadTimeout:      cfg.Source.ReadTimeout,
	}
}

func newController(cfg *config.Config, conn config.ConnectionConfig) *destination.Controller {
	return destination.NewController(destination.ControllerConfig{
		Name:    conn.Name,
		APIURL:  conn.VMixAPIURL,
		Timeout: cfg.Destination.Timeout,
		Breaker: cfg.Destination.Breaker(),
	})
}

// buildApp wires one bundle per connection, the bridge, the status feed hub
// and the HTTP server. Nothing is started.
func buildApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}
	relay := bridge.NewRelay()
	dialer := newDialer(cfg)

	bundles := make([]*bridge.Bundle, 0, len(cfg.Connections))
	for _, conn := range cfg.Connections {
		l := source.NewListener(source.ListenerConfig{
			Name:           conn.Name,
			URL:            conn.SourceURL(),
			Dialer:         dialer,
			InitialBackoff: cfg.Source.InitialBackoff,
			MaxBackoff:     cfg.Source.MaxBackoff,
		}, relay)

		bu, err := bridge.NewBundle(conn.Name, l, newController(cfg, conn), conn.BridgeMappings())
		if err != nil {
			return nil, err
		}
		a.listeners = append(a.listeners, l)
		bundles = append(bundles, bu)
	}

	b, err := bridge.New(cfg.Settings.Bridge(), bundles,
		bridge.WithRelay(relay),
		bridge.WithWaveTimeout(cfg.Destination.WaveTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create bridge: %w", err)
	}
	a.bridge = b

	a.hub = ws.NewHub(b.Snapshot)
	a.unsubscribe = b.Subscribe(a.hub)

	handler := api.NewHandler(b, a.hub, api.HandlerConfig{
		CORSOrigins:    cfg.API.CORSOrigins,
		CommandTimeout: commandTimeout(cfg.API.WriteTimeout),
	})
	mw := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.API.CORSOrigins,
		CORSAllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.API.RateLimitReqs,
		RateLimitWindow:    cfg.API.RateLimitWindow,
		RateLimitDisabled:  cfg.API.RateLimitDisabled,
	})

	a.server = &http.Server{
		Addr:              cfg.APIAddr(),
		Handler:           api.NewRouter(handler, mw).Setup(),
		ReadTimeout:       cfg.API.ReadTimeout,
		ReadHeaderTimeout: cfg.API.ReadTimeout,
		WriteTimeout:      cfg.API.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return a, nil
}

// commandTimeout leaves a second of the write timeout for the response.
func commandTimeout(write time.Duration) time.Duration {
	if write > 2*time.Second {
		return write - time.Second
	}
	return 0 // handler default
}
