// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package source

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/tomtom215/lyrisync/internal/logging"
	"github.com/tomtom215/lyrisync/internal/metrics"
)

var (
	// ErrStopped is returned by Serve when the listener was stopped with Stop
	// while its parent context was still alive.
	ErrStopped = errors.New("source: listener stopped")

	// ErrAlreadyRunning is returned by Serve when the listener loop is active.
	ErrAlreadyRunning = errors.New("source: listener already running")
)

// ListenerConfig configures a Listener.
type ListenerConfig struct {
	// Name identifies the source in events, logs and metrics.
	Name string

	// URL is the source endpoint, e.g. ws://192.168.1.20:4317.
	URL string

	// Dialer defaults to WebSocketDialer{}.
	Dialer Dialer

	// InitialBackoff and MaxBackoff default to 2s and 15s.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Listener maintains one subscription to a lyrics source.
type Listener struct {
	name    string
	url     string
	dialer  Dialer
	handler EventHandler
	policy  *backoff.ExponentialBackOff
	log     zerolog.Logger

	// wait is replaced in tests to observe backoff without sleeping.
	wait func(ctx context.Context, d time.Duration) error

	state atomic.Int32

	runMu   sync.Mutex
	running bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}

	connMu sync.Mutex
	conn   Conn
}

// NewListener creates a stopped listener. handler must not be nil.
func NewListener(cfg ListenerConfig, handler EventHandler) *Listener {
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = WebSocketDialer{}
	}
	maxWait := cfg.MaxBackoff
	if maxWait <= 0 {
		maxWait = DefaultMaxBackoff
	}
	l := &Listener{
		name:    cfg.Name,
		url:     cfg.URL,
		dialer:  dialer,
		handler: handler,
		policy:  NewBackoff(cfg.InitialBackoff, maxWait),
		log:     logging.With().Str("component", "source").Str("source", cfg.Name).Logger(),
		wait:    sleepContext,
	}
	l.state.Store(int32(StateDisconnected))
	return l
}

// Name returns the configured source name.
func (l *Listener) Name() string { return l.name }

// URL returns the configured endpoint.
func (l *Listener) URL() string { return l.url }

// State returns the current connection state.
func (l *Listener) State() State { return State(l.state.Load()) }

// IsConnected reports whether a connection is established.
func (l *Listener) IsConnected() bool { return l.State() == StateConnected }

// Start runs the connect loop on a new goroutine. Calling Start on a running
// listener does nothing.
func (l *Listener) Start(ctx context.Context) {
	runCtx, ok := l.begin(ctx)
	if !ok {
		return
	}
	go l.run(runCtx)
}

// Serve runs the connect loop on the calling goroutine until ctx is done or
// Stop is called. It satisfies suture.Service.
func (l *Listener) Serve(ctx context.Context) error {
	runCtx, ok := l.begin(ctx)
	if !ok {
		return ErrAlreadyRunning
	}
	l.run(runCtx)

	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrStopped
}

// Stop ends the loop, closes the current connection and waits for the loop
// to exit. It must not be called from an EventHandler callback.
func (l *Listener) Stop() {
	l.runMu.Lock()
	if !l.running {
		l.runMu.Unlock()
		return
	}
	l.stopped = true
	cancel, done := l.cancel, l.done
	l.runMu.Unlock()

	cancel()
	l.closeConn()
	<-done
}

func (l *Listener) begin(ctx context.Context) (context.Context, bool) {
	l.runMu.Lock()
	defer l.runMu.Unlock()

	if l.running {
		return nil, false
	}
	runCtx, cancel := context.WithCancel(ctx)
	l.running = true
	l.stopped = false
	l.cancel = cancel
	l.done = make(chan struct{})
	return runCtx, true
}

func (l *Listener) finish() {
	l.runMu.Lock()
	defer l.runMu.Unlock()

	l.cancel()
	l.running = false
	close(l.done)
}

func (l *Listener) run(ctx context.Context) {
	defer l.finish()

	l.log.Info().Str("url", l.url).Msg("Source listener starting")
	for {
		connected := l.attempt(ctx)
		l.setState(StateDisconnected)

		if ctx.Err() != nil && !connected {
			break
		}
		metrics.SourceDisconnects.WithLabelValues(l.name).Inc()
		l.handler.OnDisconnect(l.name)
		if ctx.Err() != nil {
			break
		}

		delay := l.policy.NextBackOff()
		l.log.Debug().Dur("delay", delay).Msg("Waiting before reconnect")
		if err := l.wait(ctx, delay); err != nil {
			break
		}
	}
	l.log.Info().Msg("Source listener stopped")
}

// attempt dials once and reads until the connection ends. It reports whether
// the dial succeeded.
func (l *Listener) attempt(ctx context.Context) bool {
	l.setState(StateConnecting)

	conn, err := l.dialer.Dial(ctx, l.url)
	if err != nil {
		if ctx.Err() == nil {
			l.log.Warn().Err(err).Msg("Source connect failed")
		}
		return false
	}
	if !l.setConn(ctx, conn) {
		_ = conn.Close()
		return false
	}
	defer l.closeConn()

	// A blocked read only returns once the connection is closed.
	release := context.AfterFunc(ctx, l.closeConn)
	defer release()

	l.policy.Reset()
	l.setState(StateConnected)
	metrics.SourceConnects.WithLabelValues(l.name).Inc()
	l.log.Info().Msg("Connected to lyrics source")
	l.handler.OnConnect(l.name)

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				l.log.Info().Err(err).Msg("Source connection closed")
			}
			return true
		}

		content, ok := ParseMessage(data)
		if !ok {
			metrics.SourceMessages.WithLabelValues(l.name, "dropped").Inc()
			l.log.Debug().Int("bytes", len(data)).Msg("Dropped unparseable source frame")
			continue
		}
		kind := "content"
		if content.IsBlank {
			kind = "blank"
		}
		metrics.SourceMessages.WithLabelValues(l.name, kind).Inc()
		l.handler.OnContent(l.name, content)
	}
}

// setConn installs conn unless the listener is already shutting down.
func (l *Listener) setConn(ctx context.Context, conn Conn) bool {
	l.runMu.Lock()
	stopped := l.stopped
	l.runMu.Unlock()
	if stopped || ctx.Err() != nil {
		return false
	}

	l.connMu.Lock()
	l.conn = conn
	l.connMu.Unlock()
	return true
}

func (l *Listener) closeConn() {
	l.connMu.Lock()
	conn := l.conn
	l.conn = nil
	l.connMu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			l.log.Debug().Err(err).Msg("Failed to close source connection")
		}
	}
}

func (l *Listener) setState(s State) {
	prev := State(l.state.Swap(int32(s)))
	if prev == s {
		return
	}
	v := 0.0
	if s == StateConnected {
		v = 1
	}
	metrics.SourceConnected.WithLabelValues(l.name).Set(v)
}
