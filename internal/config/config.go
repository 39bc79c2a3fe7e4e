// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/lyrisync/internal/bridge"
	"github.com/tomtom215/lyrisync/internal/destination"
)

// Default values shared by the loader and connection normalization.
const (
	DefaultOpenLPHost  = "127.0.0.1"
	DefaultWSPort      = 4317
	DefaultVMixAPIURL  = "http://localhost:8088/api"
	DefaultOpenLPWSURL = "ws://localhost:4317"
	DefaultTitleInput  = "SongTitle"
	DefaultTitleField  = "Message.Text"
	DefaultAPIPort     = 5000
	DefaultConnName    = "Connection"
	legacyConnName     = "Default"
)

// Config holds all application configuration.
type Config struct {
	Settings    SettingsConfig     `koanf:"settings"`
	Connections []ConnectionConfig `koanf:"connections" validate:"min=1,dive"`
	API         APIConfig          `koanf:"api"`
	Destination DestinationConfig  `koanf:"destination"`
	Source      SourceConfig       `koanf:"source"`
	Logging     LoggingConfig      `koanf:"logging"`
}

// SettingsConfig is the settings block of the YAML file. It carries the
// global bridge policy and the legacy single-connection fields.
type SettingsConfig struct {
	// Legacy single-endpoint fields, used when connections is empty.
	VMixAPIURL     string `koanf:"vmix_api_url" validate:"omitempty,httpurl"`
	OpenLPWSURL    string `koanf:"openlp_ws_url" validate:"omitempty,wsurl"`
	VMixTitleInput string `koanf:"vmix_title_input"`
	VMixTitleField string `koanf:"vmix_title_field"`

	APIPort         int    `koanf:"api_port" validate:"min=1,max=65535"`
	ConnectionsFile string `koanf:"connections_file"`

	PollIntervalSec       int  `koanf:"poll_interval_sec"`
	OverlayChannel        int  `koanf:"overlay_channel"`
	AutoOverlayOnSend     bool `koanf:"auto_overlay_on_send"`
	AutoOverlayOutOnClear bool `koanf:"auto_overlay_out_on_clear"`
	OverlayAlwaysOn       bool `koanf:"overlay_always_on"`
	AutoClearIdleSec      int  `koanf:"auto_clear_idle_sec"`
	MaxCharsPerLine       int  `koanf:"max_chars_per_line"`
	ClearOnBlank          bool `koanf:"clear_on_blank"`
}

// Bridge converts the policy fields into a bridge settings snapshot.
func (s SettingsConfig) Bridge() bridge.Settings {
	return bridge.Settings{
		MaxCharsPerLine:       s.MaxCharsPerLine,
		OverlayChannel:        s.OverlayChannel,
		AutoOverlayOnSend:     s.AutoOverlayOnSend,
		AutoOverlayOutOnClear: s.AutoOverlayOutOnClear,
		OverlayAlwaysOn:       s.OverlayAlwaysOn,
		AutoClearIdleSeconds:  s.AutoClearIdleSec,
		ClearOnBlank:          s.ClearOnBlank,
		PollIntervalSeconds:   s.PollIntervalSec,
	}.Normalize()
}

// ConnectionConfig describes one source/destination bundle. The json tags
// match the connection export format.
type ConnectionConfig struct {
	Name       string          `koanf:"name" json:"name" validate:"required,max=64"`
	OpenLPIP   string          `koanf:"openlp_ip" json:"openlp_ip,omitempty"`
	HTTPPort   int             `koanf:"http_port" json:"http_port,omitempty" validate:"omitempty,min=1,max=65535"`
	WSPort     int             `koanf:"ws_port" json:"ws_port,omitempty" validate:"min=1,max=65535"`
	WSURL      string          `koanf:"ws_url" json:"ws_url,omitempty" validate:"omitempty,wsurl"`
	VMixAPIURL string          `koanf:"vmix_api_url" json:"vmix_api_url" validate:"required,httpurl"`
	Mappings   []MappingConfig `koanf:"mappings" json:"mappings" validate:"min=1,dive"`
}

// SourceURL returns ws_url when set, otherwise ws://openlp_ip:ws_port.
func (c ConnectionConfig) SourceURL() string {
	if c.WSURL != "" {
		return c.WSURL
	}
	return "ws://" + net.JoinHostPort(c.OpenLPIP, strconv.Itoa(c.WSPort))
}

// BridgeMappings converts the mappings for bridge.NewBundle.
func (c ConnectionConfig) BridgeMappings() []bridge.Mapping {
	out := make([]bridge.Mapping, len(c.Mappings))
	for i, m := range c.Mappings {
		out[i] = bridge.Mapping{Input: m.Input, Field: m.Field}
	}
	return out
}

// MappingConfig names a destination input and field.
type MappingConfig struct {
	Input string `koanf:"input" json:"input" validate:"required"`
	Field string `koanf:"field" json:"field" validate:"required"`
}

// APIConfig configures the local control API.
type APIConfig struct {
	Host              string        `koanf:"host" validate:"omitempty,hostname|ip"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DestinationConfig tunes every destination controller.
type DestinationConfig struct {
	Timeout         time.Duration `koanf:"timeout"`
	WaveTimeout     time.Duration `koanf:"wave_timeout"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerOpenTime time.Duration `koanf:"breaker_open_timeout"`
	BreakerInterval time.Duration `koanf:"breaker_interval"`
}

// Breaker returns the circuit breaker settings.
func (d DestinationConfig) Breaker() destination.BreakerConfig {
	return destination.BreakerConfig{
		ConsecutiveFailures: d.BreakerFailures,
		OpenTimeout:         d.BreakerOpenTime,
		Interval:            d.BreakerInterval,
	}
}

// SourceConfig tunes every source listener.
type SourceConfig struct {
	InitialBackoff   time.Duration `koanf:"initial_backoff"`
	MaxBackoff       time.Duration `koanf:"max_backoff"`
	HandshakeTimeout time.Duration `koanf:"handshake_timeout"`
	PingInterval     time.Duration `koanf:"ping_interval"`
	ReadTimeout      time.Duration `koanf:"read_timeout"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled off"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// APIAddr returns the host:port the control API listens on.
func (c *Config) APIAddr() string {
	return net.JoinHostPort(c.API.Host, strconv.Itoa(c.Settings.APIPort))
}

// Load reads configuration from the default sources.
func Load() (*Config, error) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
