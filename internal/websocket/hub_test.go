// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package websocket

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/lyrisync/internal/bridge"
	"github.com/tomtom215/lyrisync/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

type fakeState struct {
	mu   sync.Mutex
	snap bridge.Snapshot
}

func (f *fakeState) set(text string) {
	f.mu.Lock()
	f.snap.Lyrics.Text = text
	f.mu.Unlock()
}

func (f *fakeState) get() bridge.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

// setupHub starts a hub that stops when the test ends.
func setupHub(t *testing.T, snapshot func() bridge.Snapshot) *Hub {
	t.Helper()
	hub := NewHub(snapshot)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func createTestClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case m, ok := <-c.send:
		if !ok {
			t.Fatal("client channel closed")
		}
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestHubSendsStateOnJoin(t *testing.T) {
	t.Parallel()

	state := &fakeState{}
	state.set("GREAT IS THY FAITHFULNESS")
	hub := setupHub(t, state.get)

	client := createTestClient(hub, 8)
	if !hub.Join(client) {
		t.Fatal("Join() = false")
	}

	msg := receive(t, client)
	snap, ok := msg.Data.(bridge.Snapshot)
	if msg.Type != MessageTypeState || !ok || snap.Lyrics.Text != "GREAT IS THY FAITHFULNESS" {
		t.Errorf("join message = %+v", msg)
	}
}

func TestHubObserverBroadcasts(t *testing.T) {
	t.Parallel()

	state := &fakeState{}
	hub := setupHub(t, state.get)
	a, b := createTestClient(hub, 8), createTestClient(hub, 8)
	hub.Join(a)
	hub.Join(b)
	receive(t, a)
	receive(t, b)

	state.set("NEW LINE")
	hub.LyricsChanged(bridge.LyricsState{Text: "NEW LINE"})
	hub.SourceChanged("sanctuary", true)

	for _, c := range []*Client{a, b} {
		got := receive(t, c)
		if snap, _ := got.Data.(bridge.Snapshot); got.Type != MessageTypeState || snap.Lyrics.Text != "NEW LINE" {
			t.Errorf("client %d state = %+v", c.ID(), got)
		}
		src := receive(t, c)
		if ev, _ := src.Data.(SourceEvent); src.Type != MessageTypeSource || ev != (SourceEvent{Bundle: "sanctuary", Connected: true}) {
			t.Errorf("client %d source = %+v", c.ID(), src)
		}
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	t.Parallel()

	hub := setupHub(t, nil)
	slow, fast := createTestClient(hub, 1), createTestClient(hub, 16)
	hub.Join(slow)
	hub.Join(fast)
	waitForClients(t, hub, 2)

	for i := 0; i < 3; i++ {
		hub.BroadcastJSON(MessageTypeState, i)
	}
	for i := 0; i < 3; i++ {
		receive(t, fast)
	}

	waitForClients(t, hub, 1)
	// The slow client got one message, then its channel was closed.
	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Error("slow client channel should be closed")
	}
}

func TestHubUnregisterAndShutdown(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Serve(ctx) }()

	a, b := createTestClient(hub, 4), createTestClient(hub, 4)
	hub.Join(a)
	hub.Join(b)
	hub.Unregister <- a
	waitForClients(t, hub, 1)
	if _, ok := <-a.send; ok {
		t.Error("unregistered client channel should be closed")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("clients after shutdown = %d", hub.GetClientCount())
	}
	if _, ok := <-b.send; ok {
		t.Error("remaining client channel should be closed on shutdown")
	}
}

func TestHubJoinTimesOutWhenStopped(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the join timeout")
	}
	t.Parallel()

	hub := NewHub(nil)
	if hub.Join(createTestClient(hub, 1)) {
		t.Error("Join() on a hub that is not running = true")
	}
}

func TestClientEndToEnd(t *testing.T) {
	t.Parallel()

	state := &fakeState{}
	state.set("AMAZING GRACE")
	hub := setupHub(t, state.get)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient(hub, conn)
		if hub.Join(c) {
			c.Start()
		}
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var first struct {
		Type string          `json:"type"`
		Data bridge.Snapshot `json:"data"`
	}
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read state: %v", err)
	}
	if first.Type != MessageTypeState || first.Data.Lyrics.Text != "AMAZING GRACE" {
		t.Errorf("first message = %+v", first)
	}

	ping, _ := json.Marshal(Message{Type: MessageTypePing})
	if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	var pong Message
	if err := conn.ReadJSON(&pong); err != nil {
		t.Fatalf("read pong: %v", err)
	}
	if pong.Type != MessageTypePong {
		t.Errorf("reply type = %q, want pong", pong.Type)
	}

	_ = conn.Close()
	waitForClients(t, hub, 0)
}
