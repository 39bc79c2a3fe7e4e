// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package bridge

import "sync"

// Observer receives state changes. Callbacks run on bridge goroutines and
// must not block; UI layers hand the values off to their own thread.
type Observer interface {
	LyricsChanged(LyricsState)
	DisplayChanged(DisplayState)
	SourceChanged(bundle string, connected bool)
}

// ObserverFuncs adapts functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Lyrics  func(LyricsState)
	Display func(DisplayState)
	Source  func(bundle string, connected bool)
}

func (o ObserverFuncs) LyricsChanged(s LyricsState) {
	if o.Lyrics != nil {
		o.Lyrics(s)
	}
}

func (o ObserverFuncs) DisplayChanged(s DisplayState) {
	if o.Display != nil {
		o.Display(s)
	}
}

func (o ObserverFuncs) SourceChanged(bundle string, connected bool) {
	if o.Source != nil {
		o.Source(bundle, connected)
	}
}

type observers struct {
	mu   sync.RWMutex
	next int
	set  map[int]Observer
}

func (o *observers) add(obs Observer) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.set == nil {
		o.set = make(map[int]Observer)
	}
	id := o.next
	o.next++
	o.set[id] = obs

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.set, id)
			o.mu.Unlock()
		})
	}
}

func (o *observers) each(fn func(Observer)) {
	o.mu.RLock()
	list := make([]Observer, 0, len(o.set))
	for _, obs := range o.set {
		list = append(list, obs)
	}
	o.mu.RUnlock()

	for _, obs := range list {
		fn(obs)
	}
}
