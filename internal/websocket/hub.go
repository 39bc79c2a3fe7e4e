// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/lyrisync/internal/bridge"
	"github.com/tomtom215/lyrisync/internal/logging"
	"github.com/tomtom215/lyrisync/internal/metrics"
)

// Message types.
const (
	MessageTypeState  = "state"
	MessageTypeSource = "source"
	MessageTypePing   = "ping"
	MessageTypePong   = "pong"
)

// Message is the envelope of every feed message.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SourceEvent is the data of a source message.
type SourceEvent struct {
	Bundle    string `json:"bundle"`
	Connected bool   `json:"connected"`
}

// joinTimeout bounds Join when the hub loop is not running.
const joinTimeout = 5 * time.Second

// Hub maintains the set of clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	// snapshot supplies the state sent on connect and on change.
	snapshot func() bridge.Snapshot
}

// NewHub creates a hub. snapshot may be nil, in which case no state is
// sent on connect and state changes are not broadcast.
func NewHub(snapshot func() bridge.Snapshot) *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		snapshot:   snapshot,
	}
}

// Serve runs the hub until ctx is done. It satisfies suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	return h.RunWithContext(ctx)
}

func (h *Hub) String() string { return "websocket-hub" }

// RunWithContext runs the hub loop. Registration is drained before
// broadcasts so a new client never misses a message sent after it joined.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.add(client)
			continue
		case client := <-h.Unregister:
			h.remove(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// Join registers c, reporting false if the hub loop did not take it in time.
func (h *Hub) Join(c *Client) bool {
	timer := time.NewTimer(joinTimeout)
	defer timer.Stop()
	select {
	case h.Register <- c:
		return true
	case <-timer.C:
		return false
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WebSocketConnections.Set(float64(n))
	logging.Info().Uint64("client_id", client.id).Int("total_clients", n).Msg("websocket client connected")

	if h.snapshot != nil {
		h.sendTo(client, Message{Type: MessageTypeState, Data: h.snapshot()})
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WebSocketConnections.Set(float64(n))
	logging.Info().Uint64("client_id", client.id).Int("total_clients", n).Msg("websocket client disconnected")
}

// sendTo queues one message for a registered client, dropping the client
// when its buffer is full.
func (h *Hub) sendTo(client *Client, message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- message:
		metrics.WebSocketMessagesSent.WithLabelValues(message.Type).Inc()
	default:
		close(client.send)
		delete(h.clients, client)
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	n := h.GetClientCount()
	h.closeAllClients()
	metrics.WebSocketConnections.Set(0)

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", n).
		Msg("websocket hub stopped")
}

func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, client := range h.sortedClients() {
		select {
		case client.send <- message:
			metrics.WebSocketMessagesSent.WithLabelValues(message.Type).Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		metrics.WebSocketConnections.Set(float64(len(h.clients)))
		logging.Warn().Int("dropped", len(toRemove)).Msg("dropped slow websocket clients")
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		close(client.send)
		delete(h.clients, client)
	}
}

// BroadcastJSON queues a message for every client. It never blocks; when the
// queue is full the message is dropped.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcastState() {
	if h.snapshot != nil {
		h.BroadcastJSON(MessageTypeState, h.snapshot())
	}
}

// LyricsChanged implements bridge.Observer.
func (h *Hub) LyricsChanged(bridge.LyricsState) { h.broadcastState() }

// DisplayChanged implements bridge.Observer.
func (h *Hub) DisplayChanged(bridge.DisplayState) { h.broadcastState() }

// SourceChanged implements bridge.Observer.
func (h *Hub) SourceChanged(bundle string, connected bool) {
	h.BroadcastJSON(MessageTypeSource, SourceEvent{Bundle: bundle, Connected: connected})
}

var _ bridge.Observer = (*Hub)(nil)
