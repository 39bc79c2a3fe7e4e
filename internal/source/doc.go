// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

/*
Package source keeps a live subscription to a lyrics presentation source
(OpenLP style WebSocket feed) and turns its frames into events.

A Listener owns one logical subscription. It dials, reads frames until the
connection drops, reports the drop and waits before dialing again:

	Disconnected -> Connecting -> Connected -> Disconnected -> ...

The wait between attempts follows an exponential policy of 2s, 4s, 8s,
then 15s for every further failure. Only a successful connect resets it.
Stop interrupts a dial, a read or a wait immediately.

Each frame is decoded with ParseMessage. Frames that are not JSON objects
are dropped. Every other frame becomes one Content event, duplicates
included:

	{"text": "Amazing grace"}          -> Content{Text: "Amazing grace"}
	{"text": ""}                        -> Content{IsBlank: true}
	{"text": "Amazing", "type": "blank"} -> Content{Text: "Amazing", IsBlank: true}

Events are delivered to an EventHandler on the listener goroutine, one at a
time and in the order frames arrived.

The transport sits behind Dialer and Conn. WebSocketDialer is the
gorilla/websocket implementation used in production; tests substitute
scripted fakes.
*/
package source
