// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/lyrisync/internal/bridge"
	"github.com/tomtom215/lyrisync/internal/destination"
)

// normalize fills connection defaults, builds the legacy connection when
// none is configured and clamps the numeric settings.
func (c *Config) normalize() {
	s := &c.Settings
	s.VMixAPIURL = orDefault(s.VMixAPIURL, DefaultVMixAPIURL)
	s.OpenLPWSURL = orDefault(s.OpenLPWSURL, DefaultOpenLPWSURL)
	s.VMixTitleInput = orDefault(s.VMixTitleInput, DefaultTitleInput)
	s.VMixTitleField = orDefault(s.VMixTitleField, DefaultTitleField)

	s.OverlayChannel = destination.ClampChannel(s.OverlayChannel)
	s.MaxCharsPerLine = max(s.MaxCharsPerLine, bridge.MinCharsPerLine)
	s.PollIntervalSec = max(s.PollIntervalSec, 1)
	s.AutoClearIdleSec = max(s.AutoClearIdleSec, 0)

	if len(c.Connections) == 0 {
		c.Connections = []ConnectionConfig{legacyConnection(s)}
	}
	for i := range c.Connections {
		normalizeConnection(&c.Connections[i], i, s)
	}
}

func legacyConnection(s *SettingsConfig) ConnectionConfig {
	conn := ConnectionConfig{
		Name:       legacyConnName,
		WSURL:      s.OpenLPWSURL,
		VMixAPIURL: s.VMixAPIURL,
		Mappings:   []MappingConfig{{Input: s.VMixTitleInput, Field: s.VMixTitleField}},
	}
	if u, err := url.Parse(s.OpenLPWSURL); err == nil {
		conn.OpenLPIP = u.Hostname()
		if p, err := strconv.Atoi(u.Port()); err == nil {
			conn.WSPort = p
		}
	}
	return conn
}

func normalizeConnection(conn *ConnectionConfig, index int, s *SettingsConfig) {
	conn.Name = strings.TrimSpace(conn.Name)
	if conn.Name == "" {
		conn.Name = fmt.Sprintf("%s %d", DefaultConnName, index+1)
	}
	conn.OpenLPIP = orDefault(strings.TrimSpace(conn.OpenLPIP), DefaultOpenLPHost)
	if conn.WSPort == 0 {
		conn.WSPort = DefaultWSPort
	}
	conn.WSURL = strings.TrimSpace(conn.WSURL)
	conn.VMixAPIURL = orDefault(strings.TrimSpace(conn.VMixAPIURL), s.VMixAPIURL)

	for j := range conn.Mappings {
		m := &conn.Mappings[j]
		m.Input = orDefault(strings.TrimSpace(m.Input), s.VMixTitleInput)
		m.Field = orDefault(strings.TrimSpace(m.Field), s.VMixTitleField)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
