// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/lyrisync/internal/logging"
)

// Conn is an established source connection.
type Conn interface {
	// ReadMessage blocks until the next frame arrives or the connection fails.
	ReadMessage() ([]byte, error)

	// Close unblocks any pending ReadMessage. It may be called more than once.
	Close() error
}

// Dialer opens source connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultPingInterval     = 20 * time.Second
	defaultReadTimeout      = 60 * time.Second
)

// WebSocketDialer dials sources with gorilla/websocket.
//
// The connection sends a ping every PingInterval. Any frame or pong extends
// the read deadline by ReadTimeout, so a silent but healthy source stays up
// while a dead peer is detected.
type WebSocketDialer struct {
	HandshakeTimeout time.Duration
	PingInterval     time.Duration
	ReadTimeout      time.Duration
}

// Dial implements Dialer.
func (d WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	handshake := d.HandshakeTimeout
	if handshake <= 0 {
		handshake = defaultHandshakeTimeout
	}
	ping := d.PingInterval
	if ping <= 0 {
		ping = defaultPingInterval
	}
	readTimeout := d.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshake}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Debug().Err(cerr).Msg("Failed to close handshake response body")
		}
	}

	wc := &wsConn{
		conn:        conn,
		readTimeout: readTimeout,
		stop:        make(chan struct{}),
	}
	if err := wc.extendDeadline(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("set read deadline: %w", err)
	}
	conn.SetPongHandler(func(string) error { return wc.extendDeadline() })

	wc.wg.Add(1)
	go wc.pingLoop(ping)
	return wc, nil
}

type wsConn struct {
	conn        *websocket.Conn
	readTimeout time.Duration

	stop      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func (c *wsConn) extendDeadline() error {
	return c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if err := c.extendDeadline(); err != nil {
		return nil, err
	}
	return data, nil
}

// pingLoop uses WriteControl, which gorilla allows concurrently with reads.
func (c *wsConn) pingLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				logging.Debug().Err(err).Msg("Source ping failed")
				_ = c.conn.Close()
				return
			}
		}
	}
}

func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stop)
		if werr := c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		); werr != nil {
			logging.Debug().Err(werr).Msg("Failed to send close frame")
		}
		err = c.conn.Close()
		c.wg.Wait()
	})
	return err
}
