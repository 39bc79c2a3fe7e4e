// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/lyrisync/internal/bridge"
	"github.com/tomtom215/lyrisync/internal/logging"
	"github.com/tomtom215/lyrisync/internal/supervisor"
	"github.com/tomtom215/lyrisync/internal/supervisor/services"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bridge, the control API and the status feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.run(ctx)
		},
	}
}

// run serves until ctx is canceled or the tree terminates, then shuts the
// bridge down.
func (a *app) run(ctx context.Context) error {
	info := currentVersion()
	logging.Info().
		Str("version", info.Version).
		Int("connections", len(a.cfg.Connections)).
		Str("api_addr", a.server.Addr).
		Msg("Starting LyriSync")
	for _, bi := range a.bridge.Bundles() {
		logging.Info().
			Str("connection", bi.Name).
			Str("source", bi.SourceURL).
			Str("destination", bi.DestinationURL).
			Int("mappings", len(bi.Mappings)).
			Msg("Connection configured")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: a.cfg.API.ShutdownTimeout,
	})
	if err != nil {
		return err
	}
	for _, l := range a.listeners {
		tree.AddSourceService(services.NewSourceService(l))
	}
	tree.AddCoreService(services.NewLoopService(a.bridge))
	tree.AddCoreService(a.hub)
	tree.AddCoreService(bridge.NewIdleWatcher(a.bridge))
	tree.AddCoreService(bridge.NewHealthWatcher(a.bridge))
	tree.AddAPIService(services.NewHTTPServerService(a.server, a.cfg.API.ShutdownTimeout))

	treeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := tree.ServeBackground(treeCtx)

	var runErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, stopping services")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Warn().Err(err).Msg("Supervisor shutdown error")
		}
	case runErr = <-errCh:
		logging.Error().Err(runErr).Msg("Supervisor tree stopped unexpectedly")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	a.unsubscribe()
	shutdownCtx, done := context.WithTimeout(context.Background(), a.cfg.API.ShutdownTimeout)
	defer done()
	if err := a.bridge.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("Bridge shutdown incomplete")
	}
	logging.Info().Msg("LyriSync stopped")
	return runErr
}
