// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package bridge

import (
	"context"
	"testing"
	"time"
)

func TestIdleWatcherClearsOnce(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := DefaultSettings()
	s.AutoClearIdleSeconds = 5
	f := newFixture(t, s, 2, WithClock(func() time.Time { return t0 }))
	f.run(t)
	f.dispatch(t, SetText("it is well"))

	w := NewIdleWatcher(f.bridge)
	ctx := context.Background()

	if w.Tick(ctx, t0.Add(4*time.Second)) {
		t.Fatal("cleared before the idle timeout")
	}
	if !w.Tick(ctx, t0.Add(5*time.Second)) {
		t.Fatal("did not clear at the idle timeout")
	}
	for _, later := range []time.Duration{6, 30, 600} {
		if w.Tick(ctx, t0.Add(later*time.Second)) {
			t.Fatalf("cleared again at +%ds without new text", later)
		}
	}

	for i, d := range f.dests {
		texts := d.ofKind("text")
		if len(texts) != 1 || texts[0].Text != "" {
			t.Errorf("destination %d text calls = %+v, want exactly one clear", i, texts)
		}
	}
	overlays := f.dests[0].ofKind("overlay")
	if len(overlays) != 1 {
		t.Errorf("overlay calls = %+v, want one hide", overlays)
	}
	if got := f.bridge.Lyrics(); !got.LastUpdated.IsZero() {
		t.Errorf("LastUpdated = %v, want reset", got.LastUpdated)
	}
}

func TestIdleWatcherRearmsOnNewText(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := DefaultSettings()
	s.AutoClearIdleSeconds = 2
	f := newFixture(t, s, 1, WithClock(clock))
	f.run(t)
	w := NewIdleWatcher(f.bridge)
	ctx := context.Background()

	if w.Tick(ctx, now.Add(time.Hour)) {
		t.Fatal("cleared with no text ever set")
	}

	f.dispatch(t, SetText("first"))
	if !w.Tick(ctx, now.Add(3*time.Second)) {
		t.Fatal("first idle clear did not fire")
	}
	f.dispatch(t, SetText("second"))
	if !w.Tick(ctx, now.Add(3*time.Second)) {
		t.Fatal("clear did not re-arm after new text")
	}
}

func TestIdleWatcherDisabled(t *testing.T) {
	t.Parallel()

	f := newFixture(t, DefaultSettings(), 1)
	f.run(t)
	f.dispatch(t, SetText("text"))

	w := NewIdleWatcher(f.bridge)
	if w.Tick(context.Background(), time.Now().Add(24*time.Hour)) {
		t.Error("disabled watcher cleared")
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Serve(ctx) }()
	cancel()
	select {
	case <-errc:
	case <-time.After(time.Second):
		t.Error("Serve did not return after cancel")
	}
}
