// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lyrisync"

// Source listener metrics.
var (
	SourceConnects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_connects_total",
			Help:      "Successful connections to a lyrics source",
		},
		[]string{"source"},
	)

	SourceDisconnects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_disconnects_total",
			Help:      "Ended connection attempts, failed dials included",
		},
		[]string{"source"},
	)

	SourceMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_messages_total",
			Help:      "Frames received from a lyrics source by classification",
		},
		[]string{"source", "kind"}, // content, blank, dropped
	)

	SourceConnected = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_connected",
			Help:      "1 while the listener holds a live connection",
		},
		[]string{"source"},
	)
)

// Destination metrics.
var (
	DestinationCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "destination_commands_total",
			Help:      "Requests sent to a destination by function and result",
		},
		[]string{"destination", "function", "result"}, // success, failure, rejected, closed
	)

	DestinationCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "destination_command_duration_seconds",
			Help:      "Destination request latency",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 4},
		},
		[]string{"destination", "function"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"destination"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_transitions_total",
			Help:      "Circuit breaker state transitions",
		},
		[]string{"destination", "from", "to"},
	)
)

// Bridge metrics.
var (
	BridgeDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_dispatches_total",
			Help:      "Commands executed by the bridge loop",
		},
		[]string{"command", "origin"}, // origin: source, api, idle
	)

	FanoutWaveSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bridge_fanout_wave_size",
			Help:      "Destination calls issued per fan-out wave",
			Buckets:   []float64{1, 2, 4, 8, 16, 32},
		},
	)

	FanoutWaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bridge_fanout_wave_duration_seconds",
			Help:      "Time until every call of a fan-out wave settled",
			Buckets:   prometheus.DefBuckets,
		},
	)

	FanoutFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_fanout_failures_total",
			Help:      "Failed calls inside fan-out waves",
		},
	)

	IdleClears = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_idle_clears_total",
			Help:      "Clears triggered by the idle watcher",
		},
	)

	ConnectedSources = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bridge_connected_sources",
			Help:      "Listeners connected at the last health poll",
		},
	)
)

// API and status feed metrics.
var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "REST API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "REST API request latency",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "REST API requests in flight",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Connected status feed clients",
		},
	)

	WebSocketMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_messages_sent_total",
			Help:      "Messages broadcast to status feed clients",
		},
		[]string{"type"},
	)
)

// RecordAPIRequest records one finished REST request.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordFanoutWave records the size, duration and failures of one wave.
func RecordFanoutWave(calls, failures int, duration time.Duration) {
	FanoutWaveSize.Observe(float64(calls))
	FanoutWaveDuration.Observe(duration.Seconds())
	if failures > 0 {
		FanoutFailures.Add(float64(failures))
	}
}
