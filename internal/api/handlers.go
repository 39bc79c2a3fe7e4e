// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/lyrisync/internal/bridge"
	"github.com/tomtom215/lyrisync/internal/logging"
	ws "github.com/tomtom215/lyrisync/internal/websocket"
)

// Controller is the part of the bridge the handlers drive.
type Controller interface {
	Dispatch(ctx context.Context, cmd bridge.Command) error
	Snapshot() bridge.Snapshot
	Bundles() []bridge.BundleInfo
}

// HandlerConfig tunes request handling.
type HandlerConfig struct {
	// CORSOrigins also gates WebSocket upgrades.
	CORSOrigins []string

	// CommandTimeout bounds how long a command request waits for the loop.
	CommandTimeout time.Duration

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64
}

const (
	defaultCommandTimeout = 30 * time.Second
	defaultMaxBodyBytes   = 64 * 1024
)

// Handler serves the control API.
type Handler struct {
	ctrl      Controller
	hub       *ws.Hub
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a Handler. hub may be nil, which disables the status feed.
func NewHandler(ctrl Controller, hub *ws.Hub, cfg HandlerConfig) *Handler {
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = defaultCommandTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{
		ctrl:      ctrl,
		hub:       hub,
		config:    cfg,
		startTime: time.Now(),
	}
}

// CommandResult is the data of a successful command response.
type CommandResult struct {
	Action string `json:"action"`
}

// dispatch runs cmd on the bridge and writes the response.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, cmd bridge.Command) {
	rw := NewResponseWriter(w, r)
	ctx, cancel := context.WithTimeout(r.Context(), h.config.CommandTimeout)
	defer cancel()

	if err := h.ctrl.Dispatch(ctx, cmd.From(bridge.OriginAPI)); err != nil {
		h.dispatchError(rw, r, cmd, err)
		return
	}
	rw.Success(CommandResult{Action: string(cmd.Action)})
}

func (h *Handler) dispatchError(rw *ResponseWriter, r *http.Request, cmd bridge.Command, err error) {
	logging.Ctx(r.Context()).Warn().Err(err).Str("action", string(cmd.Action)).Msg("Command not executed")
	switch {
	case errors.Is(err, bridge.ErrStopped):
		rw.ServiceUnavailable("Bridge is shutting down")
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "Command did not complete in time")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
	case errors.Is(err, bridge.ErrUnknownAction):
		rw.BadRequest(err.Error())
	default:
		rw.InternalError("Command failed")
	}
}

// ShowLyrics shows the current lyrics on every destination. When the body
// carries text, it is stored and shown as one command.
//
// @Summary Show lyrics
// @Description Optionally replaces the current text, then fans it out to every mapped title field
// @Tags Control
// @Accept json
// @Produce json
// @Param body body ShowLyricsRequest false "Optional replacement text"
// @Success 200 {object} APIResponse{data=CommandResult}
// @Failure 400 {object} APIResponse "Malformed body"
// @Router /show_lyrics [post]
func (h *Handler) ShowLyrics(w http.ResponseWriter, r *http.Request) {
	req, err := decodeShowLyrics(w, r, h.config.MaxBodyBytes)
	if err != nil {
		writeDecodeError(NewResponseWriter(w, r), err)
		return
	}

	if req.hasText {
		h.dispatch(w, r, bridge.ShowText(req.Text))
		return
	}
	h.dispatch(w, r, bridge.Show())
}

// ClearLyrics blanks every mapped field.
//
// @Summary Clear lyrics
// @Tags Control
// @Produce json
// @Success 200 {object} APIResponse{data=CommandResult}
// @Router /clear_lyrics [post]
func (h *Handler) ClearLyrics(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, bridge.Clear())
}

// ToggleOverlay re-issues the overlay show on the first destination.
//
// @Summary Toggle overlay
// @Tags Control
// @Produce json
// @Success 200 {object} APIResponse{data=CommandResult}
// @Router /toggle_overlay [post]
func (h *Handler) ToggleOverlay(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, bridge.ToggleOverlay())
}

// StartRecording starts recording on the first destination.
//
// @Summary Start recording
// @Tags Control
// @Produce json
// @Success 200 {object} APIResponse{data=CommandResult}
// @Router /start_recording [post]
func (h *Handler) StartRecording(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, bridge.StartRecording())
}

// StopRecording stops recording on the first destination.
//
// @Summary Stop recording
// @Tags Control
// @Produce json
// @Success 200 {object} APIResponse{data=CommandResult}
// @Router /stop_recording [post]
func (h *Handler) StopRecording(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, bridge.StopRecording())
}

// StatusResponse is the data of GET /status.
type StatusResponse struct {
	Lyrics        bridge.LyricsState  `json:"lyrics"`
	Display       bridge.DisplayState `json:"display"`
	Connections   int                 `json:"connections"`
	FeedClients   int                 `json:"feed_clients"`
	UptimeSeconds int64               `json:"uptime_seconds"`
}

// Status returns the lyrics and display snapshot.
//
// @Summary Bridge status
// @Tags Status
// @Produce json
// @Success 200 {object} APIResponse{data=StatusResponse}
// @Router /status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	snap := h.ctrl.Snapshot()
	resp := StatusResponse{
		Lyrics:        snap.Lyrics,
		Display:       snap.Display,
		Connections:   len(h.ctrl.Bundles()),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}
	if h.hub != nil {
		resp.FeedClients = h.hub.GetClientCount()
	}
	NewResponseWriter(w, r).Success(resp)
}

// Connections lists the configured bundles with their live health.
//
// @Summary Configured connections
// @Tags Status
// @Produce json
// @Success 200 {object} APIResponse{data=[]bridge.BundleInfo}
// @Router /connections [get]
func (h *Handler) Connections(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.ctrl.Bundles())
}

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":          true,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}

// WebSocket upgrades to the status feed.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		NewResponseWriter(w, r).ServiceUnavailable("Status feed unavailable")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn)
	if !h.hub.Join(client) {
		logging.Warn().Msg("WebSocket client dropped: hub not accepting registrations")
		_ = conn.Close()
		return
	}
	client.Start()
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin allows non-browser clients without an Origin and
// browsers whose Origin is in the CORS list.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.config.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
