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

// IdlePeriod is how often the idle watcher checks the lyrics age.
const IdlePeriod = time.Second

// IdleWatcher clears the display after AutoClearIdleSeconds without new text.
type IdleWatcher struct {
	bridge *Bridge
	period time.Duration
}

// NewIdleWatcher creates a watcher for b.
func NewIdleWatcher(b *Bridge) *IdleWatcher {
	return &IdleWatcher{bridge: b, period: IdlePeriod}
}

// Serve ticks until ctx is done. It satisfies suture.Service.
func (w *IdleWatcher) Serve(ctx context.Context) error {
	if w.bridge.settings.IdleTimeout() == 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(w.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Tick(ctx, w.bridge.now())
		}
	}
}

func (w *IdleWatcher) String() string { return "idle-watcher" }

// Tick clears once if the text is older than the idle timeout, and reports
// whether it did. LastUpdated is reset in the same loop step as the Clear,
// so no second Clear fires until new text arrives.
func (w *IdleWatcher) Tick(ctx context.Context, now time.Time) bool {
	b := w.bridge
	idle := b.settings.IdleTimeout()
	if idle == 0 {
		return false
	}

	var fired bool
	err := b.submit(ctx, func(loopCtx context.Context) {
		b.mu.Lock()
		last := b.lyrics.LastUpdated
		due := !last.IsZero() && now.Sub(last) >= idle
		if due {
			b.lyrics.LastUpdated = time.Time{}
		}
		b.mu.Unlock()

		if !due {
			return
		}
		fired = true
		metrics.IdleClears.Inc()
		b.log.Info().Dur("idle", idle).Msg("Auto-clearing idle lyrics")
		b.execute(loopCtx, Clear().From(OriginIdle))
	})
	return err == nil && fired
}
