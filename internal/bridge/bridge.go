// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package bridge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/lyrisync/internal/destination"
	"github.com/tomtom215/lyrisync/internal/logging"
	"github.com/tomtom215/lyrisync/internal/metrics"
	"github.com/tomtom215/lyrisync/internal/textwrap"
)

var (
	// ErrStopped is returned by Dispatch once the loop has exited.
	ErrStopped = errors.New("bridge: stopped")

	// ErrAlreadyRunning is returned by a second concurrent Run.
	ErrAlreadyRunning = errors.New("bridge: already running")
)

// DefaultWaveTimeout bounds one fan-out wave, including during shutdown.
const DefaultWaveTimeout = 10 * time.Second

// Option configures a Bridge.
type Option func(*Bridge)

// WithRelay uses r for listener events instead of a private relay.
func WithRelay(r *Relay) Option {
	return func(b *Bridge) { b.relay = r }
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Bridge) { b.now = now }
}

// WithWaveTimeout overrides DefaultWaveTimeout.
func WithWaveTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.waveTimeout = d
		}
	}
}

// request is a unit of work executed on the loop goroutine.
type request struct {
	fn   func(ctx context.Context)
	done chan struct{}
}

// Bridge owns the bundles and the shared state. Create it with New and start
// the loop with Run.
type Bridge struct {
	settings    Settings
	bundles     []*Bundle
	relay       *Relay
	now         func() time.Time
	waveTimeout time.Duration
	log         zerolog.Logger

	requests chan request
	done     chan struct{}
	running  atomic.Bool
	doneOnce sync.Once

	// nudge asks the HealthWatcher for an early poll.
	nudge chan struct{}

	mu      sync.RWMutex
	lyrics  LyricsState
	display DisplayState

	observers observers
}

// New builds a bridge over bundles with a normalized copy of settings.
func New(settings Settings, bundles []*Bundle, opts ...Option) (*Bridge, error) {
	if len(bundles) == 0 {
		return nil, ErrNoBundles
	}
	for _, bu := range bundles {
		if bu == nil || len(bu.mappings) == 0 {
			return nil, ErrNoMappings
		}
	}

	b := &Bridge{
		settings:    settings.Normalize(),
		bundles:     append([]*Bundle(nil), bundles...),
		now:         time.Now,
		waveTimeout: DefaultWaveTimeout,
		log:         logging.Component("bridge"),
		requests:    make(chan request),
		done:        make(chan struct{}),
		nudge:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.relay == nil {
		b.relay = NewRelay()
	}
	return b, nil
}

// Settings returns the normalized settings snapshot.
func (b *Bridge) Settings() Settings { return b.settings }

// Relay returns the event handler listeners must deliver to.
func (b *Bridge) Relay() *Relay { return b.relay }

// Bundles returns a description of every bundle.
func (b *Bridge) Bundles() []BundleInfo {
	out := make([]BundleInfo, 0, len(b.bundles))
	for _, bu := range b.bundles {
		out = append(out, bu.info())
	}
	return out
}

// Lyrics returns a copy of the lyrics state.
func (b *Bridge) Lyrics() LyricsState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lyrics
}

// Display returns a copy of the display state.
func (b *Bridge) Display() DisplayState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.display
}

// Snapshot returns both states read under one lock.
func (b *Bridge) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{Lyrics: b.lyrics, Display: b.display}
}

// Subscribe registers o and returns a function that removes it.
func (b *Bridge) Subscribe(o Observer) func() {
	return b.observers.add(o)
}

// Run executes the dispatch loop until ctx is done. It may be called once;
// the loop cannot be restarted because Dispatch callers rely on ErrStopped.
func (b *Bridge) Run(ctx context.Context) error {
	if !b.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer b.stop()

	b.log.Info().Int("bundles", len(b.bundles)).Msg("Bridge loop started")
	if b.settings.OverlayAlwaysOn {
		b.overlay(ctx, destination.OverlayForceOn)
	}

	for {
		select {
		case <-ctx.Done():
			b.log.Info().Msg("Bridge loop stopped")
			return ctx.Err()
		case ev := <-b.relay.events:
			b.handleEvent(ctx, ev)
		case req := <-b.requests:
			req.fn(ctx)
			close(req.done)
		}
	}
}

// Serve satisfies suture.Service.
func (b *Bridge) Serve(ctx context.Context) error { return b.Run(ctx) }

func (b *Bridge) String() string { return "bridge" }

func (b *Bridge) stop() {
	b.doneOnce.Do(func() {
		close(b.done)
		b.relay.close()
	})
}

// Dispatch runs cmd on the loop and returns once it has been executed.
// Destination failures are not reported; the only errors are an unknown
// action, ctx ending first, or ErrStopped.
func (b *Bridge) Dispatch(ctx context.Context, cmd Command) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	return b.submit(ctx, func(loopCtx context.Context) { b.execute(loopCtx, cmd) })
}

func (b *Bridge) submit(ctx context.Context, fn func(context.Context)) error {
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case b.requests <- req:
	case <-b.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-b.done:
		select {
		case <-req.done:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bridge) handleEvent(ctx context.Context, ev event) {
	switch ev.kind {
	case eventConnect, eventDisconnect:
		connected := ev.kind == eventConnect
		b.log.Debug().Str("bundle", ev.bundle).Bool("connected", connected).Msg("Source state changed")
		b.observers.each(func(o Observer) { o.SourceChanged(ev.bundle, connected) })
		b.requestHealth()
	case eventContent:
		b.storeText(ev.content.Text, ev.content.IsBlank)
		next := Show()
		if ev.content.IsBlank && b.settings.ClearOnBlank {
			next = Clear()
		}
		b.execute(ctx, next.From(OriginSource))
	}
}

// execute runs on the loop goroutine only.
func (b *Bridge) execute(ctx context.Context, cmd Command) {
	metrics.BridgeDispatches.WithLabelValues(string(cmd.Action), cmd.origin()).Inc()
	b.log.Debug().Str("action", string(cmd.Action)).Str("origin", cmd.origin()).Msg("Dispatch")

	switch cmd.Action {
	case ActionSetText:
		b.storeText(cmd.Text, strings.TrimSpace(cmd.Text) == "")
	case ActionShow:
		b.show(ctx)
	case ActionShowText:
		b.storeText(cmd.Text, strings.TrimSpace(cmd.Text) == "")
		b.show(ctx)
	case ActionClear:
		b.fanOut(ctx, "")
		if !b.settings.OverlayAlwaysOn && b.settings.AutoOverlayOutOnClear {
			b.overlay(ctx, destination.OverlayHide)
		}
		b.requestHealth()
	case ActionToggleOverlay:
		b.overlay(ctx, destination.OverlayShow)
		b.requestHealth()
	case ActionStartRecording, ActionStopRecording:
		b.record(ctx, cmd.Action == ActionStartRecording)
	}
}

func (b *Bridge) show(ctx context.Context) {
	b.fanOut(ctx, textwrap.Wrap(b.Lyrics().Text, b.settings.MaxCharsPerLine))
	switch {
	case b.settings.OverlayAlwaysOn:
		b.overlay(ctx, destination.OverlayForceOn)
	case b.settings.AutoOverlayOnSend:
		b.overlay(ctx, destination.OverlayShow)
	}
	b.requestHealth()
}

func (b *Bridge) storeText(text string, blank bool) {
	b.mu.Lock()
	b.lyrics = LyricsState{
		Text:        strings.ToUpper(strings.TrimSpace(text)),
		LastUpdated: b.now(),
		IsBlank:     blank,
	}
	snap := b.lyrics
	b.mu.Unlock()

	b.observers.each(func(o Observer) { o.LyricsChanged(snap) })
}

// waveContext outlives loop cancellation so shutdown lets a wave settle,
// but never longer than the wave timeout.
func (b *Bridge) waveContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), b.waveTimeout)
}

// fanOut writes text to every mapping of every bundle concurrently. Calls
// are independent: the group has no shared context, so a failure cancels
// nothing else.
func (b *Bridge) fanOut(ctx context.Context, text string) {
	waveCtx, cancel := b.waveContext(ctx)
	defer cancel()

	start := time.Now()
	var g errgroup.Group
	var failures atomic.Int32
	calls := 0
	for _, bu := range b.bundles {
		for _, m := range bu.mappings {
			calls++
			g.Go(func() error {
				if err := bu.Destination.SetText(waveCtx, m.Input, m.Field, text); err != nil {
					failures.Add(1)
					b.log.Debug().Err(err).Str("bundle", bu.Name).Str("input", m.Input).Msg("Fan-out call failed")
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	metrics.RecordFanoutWave(calls, int(failures.Load()), time.Since(start))
	if n := failures.Load(); n > 0 {
		b.log.Warn().Int32("failed", n).Int("calls", calls).Msg("Fan-out wave had failures")
	}
}

// overlay acts on the first bundle only; overlays are a global concern of
// the production switcher, not of each title.
func (b *Bridge) overlay(ctx context.Context, action destination.OverlayAction) {
	waveCtx, cancel := b.waveContext(ctx)
	defer cancel()

	if err := b.bundles[0].Destination.SetOverlay(waveCtx, b.settings.OverlayChannel, action); err != nil {
		b.log.Debug().Err(err).Str("action", action.String()).Msg("Overlay command failed")
	}
}

func (b *Bridge) record(ctx context.Context, start bool) {
	waveCtx, cancel := b.waveContext(ctx)
	defer cancel()

	dst := b.bundles[0].Destination
	var err error
	if start {
		err = dst.StartRecording(waveCtx)
	} else {
		err = dst.StopRecording(waveCtx)
	}
	if err != nil {
		b.log.Debug().Err(err).Bool("start", start).Msg("Recording command failed")
	}

	b.updateDisplay(func(d *DisplayState) { d.Recording = start })
}

func (b *Bridge) updateDisplay(fn func(*DisplayState)) {
	b.mu.Lock()
	prev := b.display
	fn(&b.display)
	snap := b.display
	b.mu.Unlock()

	if snap != prev {
		b.observers.each(func(o Observer) { o.DisplayChanged(snap) })
	}
}

func (b *Bridge) requestHealth() {
	select {
	case b.nudge <- struct{}{}:
	default:
	}
}

// StartSources starts every bundle's listener. Supervised deployments run
// listeners as services instead.
func (b *Bridge) StartSources(ctx context.Context) {
	for _, bu := range b.bundles {
		bu.Source.Start(ctx)
	}
}

// Shutdown stops every listener and closes every destination. It returns
// ctx.Err() if ctx ends before all listeners have stopped.
func (b *Bridge) Shutdown(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, bu := range b.bundles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bu.Source.Stop()
		}()
	}

	stopped := make(chan struct{})
	go func() {
		wg.Wait()
		close(stopped)
	}()

	var err error
	select {
	case <-stopped:
	case <-ctx.Done():
		err = ctx.Err()
	}

	for _, bu := range b.bundles {
		bu.Destination.Close()
	}
	b.log.Info().Msg("Bridge shut down")
	return err
}
