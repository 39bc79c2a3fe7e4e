// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package destination

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/lyrisync/internal/logging"
	"github.com/tomtom215/lyrisync/internal/metrics"
)

const (
	// DefaultTimeout bounds every request to the destination.
	DefaultTimeout = 4 * time.Second

	// maxBodySize caps how much of a response is read.
	maxBodySize = 4 << 20
)

// ErrClosed is returned for requests issued after Close.
var ErrClosed = errors.New("destination: controller closed")

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	// Name identifies the destination in logs and metrics.
	Name string

	// APIURL is the function endpoint, e.g. http://localhost:8088/api.
	APIURL string

	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client

	Breaker BreakerConfig
}

// Controller issues commands to one destination. It is safe for concurrent use.
type Controller struct {
	name    string
	apiURL  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	closed  atomic.Bool
	log     zerolog.Logger
}

// NewController creates a controller. No request is made until a command is issued.
func NewController(cfg ControllerConfig) *Controller {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 8,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &Controller{
		name:    cfg.Name,
		apiURL:  strings.TrimRight(cfg.APIURL, "/"),
		client:  client,
		breaker: newBreaker(cfg.Name, cfg.Breaker),
		log:     logging.With().Str("component", "destination").Str("destination", cfg.Name).Logger(),
	}
}

// Name returns the configured destination name.
func (c *Controller) Name() string { return c.name }

// APIURL returns the function endpoint.
func (c *Controller) APIURL() string { return c.apiURL }

// SetText writes text into field of input. An empty text clears the field.
func (c *Controller) SetText(ctx context.Context, input, field, text string) error {
	_, err := c.call(ctx, "SetText", url.Values{
		"Input":        {input},
		"SelectedName": {field},
		"Value":        {text},
	})
	return err
}

// SetOverlay requests a transition of input overlay channel (clamped to 1..4).
func (c *Controller) SetOverlay(ctx context.Context, channel int, action OverlayAction) error {
	_, err := c.call(ctx, overlayFunction(channel, action), nil)
	return err
}

// StartRecording starts recording. The result is not read back.
func (c *Controller) StartRecording(ctx context.Context) error {
	_, err := c.call(ctx, "StartRecording", nil)
	return err
}

// StopRecording stops recording.
func (c *Controller) StopRecording(ctx context.Context) error {
	_, err := c.call(ctx, "StopRecording", nil)
	return err
}

// Close releases idle connections. Safe to call more than once.
func (c *Controller) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.client.CloseIdleConnections()
}

// BreakerState returns the circuit breaker state as closed, half-open or open.
func (c *Controller) BreakerState() string {
	return stateToString(c.breaker.State())
}

// call issues one function request. An empty function fetches the status document.
func (c *Controller) call(ctx context.Context, function string, args url.Values) ([]byte, error) {
	label := function
	if label == "" {
		label = "status"
	}
	if c.closed.Load() {
		metrics.DestinationCommands.WithLabelValues(c.name, label, "closed").Inc()
		return nil, ErrClosed
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, function, args)
	})
	metrics.DestinationCommandDuration.WithLabelValues(c.name, label).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.DestinationCommands.WithLabelValues(c.name, label, "success").Inc()
	case isRejected(err):
		metrics.DestinationCommands.WithLabelValues(c.name, label, "rejected").Inc()
		c.log.Debug().Str("function", label).Msg("Destination circuit open, request skipped")
	default:
		metrics.DestinationCommands.WithLabelValues(c.name, label, "failure").Inc()
		c.log.Warn().Err(err).Str("function", label).Msg("Destination request failed")
	}
	return body, err
}

func (c *Controller) get(ctx context.Context, function string, args url.Values) ([]byte, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if function != "" {
		q := u.Query()
		q.Set("Function", function)
		for k, vs := range args {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("destination returned HTTP %d", resp.StatusCode)
	}
	return body, nil
}
