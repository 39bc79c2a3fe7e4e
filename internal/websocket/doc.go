// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

/*
Package websocket pushes bridge state to status feed clients.

The Hub registers itself as a bridge.Observer and broadcasts every lyrics,
display and source change to connected clients. GUI front-ends use the feed
to drive their indicators from their own event loop instead of sharing the
bridge's goroutines.

Key Components:

  - Hub: client registry and broadcaster (a suture service)
  - Client: one WebSocket connection with read and write pumps
  - Message: the {type, data} envelope

Message Types:

  - state: data is a bridge.Snapshot; sent on every change and on connect
  - source: data is {"bundle": name, "connected": bool}
  - ping / pong: application-level keepalive requested by the client

A client that cannot keep up (full send buffer) is dropped rather than
slowing down the broadcast for everyone else.
*/
package websocket
