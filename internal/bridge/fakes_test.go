// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package bridge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/lyrisync/internal/destination"
)

type fakeSource struct {
	connected atomic.Bool
	starts    atomic.Int32
	stops     atomic.Int32
}

func (s *fakeSource) Start(context.Context) { s.starts.Add(1) }
func (s *fakeSource) Stop()                 { s.stops.Add(1) }
func (s *fakeSource) IsConnected() bool     { return s.connected.Load() }

// destCall is one recorded destination command.
type destCall struct {
	Kind    string
	Input   string
	Field   string
	Text    string
	Channel int
	Action  destination.OverlayAction
}

type fakeDestination struct {
	mu     sync.Mutex
	calls  []destCall
	fail   bool
	hang   bool
	status destination.Status
	closes atomic.Int32
}

var errDestination = errors.New("destination unreachable")

func (d *fakeDestination) record(ctx context.Context, c destCall) error {
	d.mu.Lock()
	d.calls = append(d.calls, c)
	fail, hang := d.fail, d.hang
	d.mu.Unlock()

	if hang {
		<-ctx.Done()
		return ctx.Err()
	}
	if fail {
		return errDestination
	}
	return nil
}

func (d *fakeDestination) SetText(ctx context.Context, input, field, text string) error {
	return d.record(ctx, destCall{Kind: "text", Input: input, Field: field, Text: text})
}

func (d *fakeDestination) SetOverlay(ctx context.Context, channel int, action destination.OverlayAction) error {
	return d.record(ctx, destCall{Kind: "overlay", Channel: channel, Action: action})
}

func (d *fakeDestination) StartRecording(ctx context.Context) error {
	return d.record(ctx, destCall{Kind: "start_recording"})
}

func (d *fakeDestination) StopRecording(ctx context.Context) error {
	return d.record(ctx, destCall{Kind: "stop_recording"})
}

func (d *fakeDestination) Status(context.Context) destination.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *fakeDestination) Close() { d.closes.Add(1) }

func (d *fakeDestination) snapshot() []destCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]destCall(nil), d.calls...)
}

func (d *fakeDestination) ofKind(kind string) []destCall {
	var out []destCall
	for _, c := range d.snapshot() {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (d *fakeDestination) reset() {
	d.mu.Lock()
	d.calls = nil
	d.mu.Unlock()
}

type fixture struct {
	bridge  *Bridge
	sources []*fakeSource
	dests   []*fakeDestination
}

// newFixture builds n bundles with one mapping each, named b0..bn-1.
func newFixture(t *testing.T, settings Settings, n int, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{}
	var bundles []*Bundle
	for i := 0; i < n; i++ {
		src, dst := &fakeSource{}, &fakeDestination{}
		name := string(rune('a'+i)) + "-bundle"
		bu, err := NewBundle(name, src, dst, []Mapping{{Input: "SongTitle", Field: "Message.Text"}})
		if err != nil {
			t.Fatalf("NewBundle: %v", err)
		}
		f.sources = append(f.sources, src)
		f.dests = append(f.dests, dst)
		bundles = append(bundles, bu)
	}
	b, err := New(settings, bundles, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.bridge = b
	return f
}

// run starts the loop and stops it when the test ends.
func (f *fixture) run(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	exited := make(chan struct{})
	go func() {
		_ = f.bridge.Run(ctx)
		close(exited)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-exited:
		case <-time.After(5 * time.Second):
			t.Error("bridge loop did not exit")
		}
	})
}

func (f *fixture) dispatch(t *testing.T, cmds ...Command) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, c := range cmds {
		if err := f.bridge.Dispatch(ctx, c); err != nil {
			t.Fatalf("Dispatch(%s): %v", c.Action, err)
		}
	}
}

// sync waits until every earlier event has been processed by the loop.
func (f *fixture) sync(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.bridge.submit(ctx, func(context.Context) {}); err != nil {
		t.Fatalf("sync: %v", err)
	}
}
