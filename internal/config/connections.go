// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// ErrConnectionsFormat rejects a connections document that is neither a
// list nor an object with a "connections" list.
var ErrConnectionsFormat = errors.New(`connections JSON must be a list of connection objects or {"connections": [...]}`)

// ConnectionsDocument is the export format.
type ConnectionsDocument struct {
	Connections []ConnectionConfig `json:"connections"`
}

// ParseConnections decodes either a bare list of connections or a
// ConnectionsDocument. Values are not normalized or validated.
func ParseConnections(data []byte) ([]ConnectionConfig, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrConnectionsFormat
	}

	switch trimmed[0] {
	case '[':
		var conns []ConnectionConfig
		if err := json.Unmarshal(trimmed, &conns); err != nil {
			return nil, fmt.Errorf("decode connections list: %w", err)
		}
		return conns, nil
	case '{':
		var doc struct {
			Connections *[]ConnectionConfig `json:"connections"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode connections document: %w", err)
		}
		if doc.Connections == nil {
			return nil, ErrConnectionsFormat
		}
		return *doc.Connections, nil
	default:
		return nil, ErrConnectionsFormat
	}
}

// ReadConnectionsFile reads and parses a connections JSON file.
func ReadConnectionsFile(path string) ([]ConnectionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read connections file: %w", err)
	}
	conns, err := ParseConnections(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return conns, nil
}

// WriteConnections writes conns as an indented ConnectionsDocument.
func WriteConnections(w io.Writer, conns []ConnectionConfig) error {
	if conns == nil {
		conns = []ConnectionConfig{}
	}
	data, err := json.MarshalIndent(ConnectionsDocument{Connections: conns}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode connections: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
