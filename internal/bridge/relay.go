// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package bridge

import (
	"sync"

	"github.com/tomtom215/lyrisync/internal/source"
)

type eventKind int

const (
	eventConnect eventKind = iota
	eventDisconnect
	eventContent
)

type event struct {
	kind    eventKind
	bundle  string
	content source.Content
}

// Relay is the source.EventHandler handed to listeners. It forwards events
// to the bridge loop in order. A send blocks until the loop takes the event,
// which keeps one source's updates in sequence, and returns immediately once
// the bridge has stopped.
//
// A Relay exists before the Bridge so listeners can be built first.
type Relay struct {
	events    chan event
	closed    chan struct{}
	closeOnce sync.Once
}

// NewRelay creates an unattached relay.
func NewRelay() *Relay {
	return &Relay{
		events: make(chan event),
		closed: make(chan struct{}),
	}
}

func (r *Relay) OnConnect(name string) {
	r.send(event{kind: eventConnect, bundle: name})
}

func (r *Relay) OnDisconnect(name string) {
	r.send(event{kind: eventDisconnect, bundle: name})
}

func (r *Relay) OnContent(name string, c source.Content) {
	r.send(event{kind: eventContent, bundle: name, content: c})
}

func (r *Relay) send(ev event) {
	select {
	case r.events <- ev:
	case <-r.closed:
	}
}

func (r *Relay) close() {
	r.closeOnce.Do(func() { close(r.closed) })
}

var _ source.EventHandler = (*Relay)(nil)
