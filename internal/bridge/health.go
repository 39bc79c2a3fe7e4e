// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package bridge

import (
	"context"
	"time"

	"github.com/tomtom215/lyrisync/internal/metrics"
)

// HealthWatcher mirrors destination and source health into DisplayState.
type HealthWatcher struct {
	bridge  *Bridge
	period  time.Duration
	timeout time.Duration
}

// NewHealthWatcher polls every PollIntervalSeconds, and early after a
// command when the bridge asks for it.
func NewHealthWatcher(b *Bridge) *HealthWatcher {
	return &HealthWatcher{
		bridge:  b,
		period:  b.settings.PollInterval(),
		timeout: 5 * time.Second,
	}
}

// Serve polls until ctx is done. It satisfies suture.Service.
func (w *HealthWatcher) Serve(ctx context.Context) error {
	ticker := time.NewTicker(w.period)
	defer ticker.Stop()

	w.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-w.bridge.nudge:
		}
		w.Tick(ctx)
	}
}

func (w *HealthWatcher) String() string { return "health-watcher" }

// Tick runs one poll. The overlay indicator follows the configured channel.
func (w *HealthWatcher) Tick(ctx context.Context) DisplayState {
	b := w.bridge

	pollCtx, cancel := context.WithTimeout(ctx, w.timeout)
	status := b.bundles[0].Destination.Status(pollCtx)
	cancel()

	connected := 0
	for _, bu := range b.bundles {
		if bu.Source.IsConnected() {
			connected++
		}
	}
	metrics.ConnectedSources.Set(float64(connected))

	b.updateDisplay(func(d *DisplayState) {
		d.Recording = status.Recording
		d.OverlayOn = status.OverlayOn(b.settings.OverlayChannel)
		d.DestinationOK = status.Reachable
		d.ConnectedSources = connected
	})
	return b.Display()
}
