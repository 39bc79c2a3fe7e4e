// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package source

// State is the connection state of a Listener.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Content is one classified frame from the source.
type Content struct {
	Text    string
	IsBlank bool
}

// EventHandler receives listener events. Calls are made from the listener
// goroutine, sequentially; a slow handler delays the next frame.
type EventHandler interface {
	OnConnect(name string)
	OnDisconnect(name string)
	OnContent(name string, content Content)
}

// HandlerFuncs adapts plain functions to EventHandler. Nil fields are skipped.
type HandlerFuncs struct {
	Connect    func(name string)
	Disconnect func(name string)
	Content    func(name string, content Content)
}

func (h HandlerFuncs) OnConnect(name string) {
	if h.Connect != nil {
		h.Connect(name)
	}
}

func (h HandlerFuncs) OnDisconnect(name string) {
	if h.Disconnect != nil {
		h.Disconnect(name)
	}
}

func (h HandlerFuncs) OnContent(name string, content Content) {
	if h.Content != nil {
		h.Content(name, content)
	}
}
