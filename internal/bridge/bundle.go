// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/lyrisync/internal/destination"
)

var (
	// ErrNoMappings rejects a bundle without any mapping.
	ErrNoMappings = errors.New("bridge: bundle needs at least one mapping")

	// ErrNoBundles rejects a bridge without bundles.
	ErrNoBundles = errors.New("bridge: at least one bundle is required")
)

// Mapping names the destination input and field that receive fanned-out text.
type Mapping struct {
	Input string `json:"input"`
	Field string `json:"field"`
}

// Source is the listener side of a bundle. *source.Listener implements it.
type Source interface {
	Start(ctx context.Context)
	Stop()
	IsConnected() bool
}

// Destination is the controller side of a bundle. *destination.Controller
// implements it. Command errors are observational.
type Destination interface {
	SetText(ctx context.Context, input, field, text string) error
	SetOverlay(ctx context.Context, channel int, action destination.OverlayAction) error
	StartRecording(ctx context.Context) error
	StopRecording(ctx context.Context) error
	Status(ctx context.Context) destination.Status
	Close()
}

// Bundle binds a source to a destination. It is read-only after NewBundle.
type Bundle struct {
	Name        string
	Source      Source
	Destination Destination
	mappings    []Mapping
}

// NewBundle validates and builds a bundle. The mapping slice is copied.
func NewBundle(name string, src Source, dst Destination, mappings []Mapping) (*Bundle, error) {
	if len(mappings) == 0 {
		return nil, fmt.Errorf("bundle %q: %w", name, ErrNoMappings)
	}
	if src == nil || dst == nil {
		return nil, fmt.Errorf("bundle %q: source and destination are required", name)
	}
	return &Bundle{
		Name:        name,
		Source:      src,
		Destination: dst,
		mappings:    append([]Mapping(nil), mappings...),
	}, nil
}

// Mappings returns a copy of the bundle's mappings in configuration order.
func (b *Bundle) Mappings() []Mapping {
	return append([]Mapping(nil), b.mappings...)
}

// BundleInfo describes a bundle for status endpoints.
type BundleInfo struct {
	Name           string    `json:"name"`
	SourceURL      string    `json:"source_url,omitempty"`
	DestinationURL string    `json:"destination_url,omitempty"`
	Connected      bool      `json:"connected"`
	Breaker        string    `json:"breaker,omitempty"`
	Mappings       []Mapping `json:"mappings"`
}

func (b *Bundle) info() BundleInfo {
	bi := BundleInfo{
		Name:      b.Name,
		Connected: b.Source.IsConnected(),
		Mappings:  b.Mappings(),
	}
	if u, ok := b.Source.(interface{ URL() string }); ok {
		bi.SourceURL = u.URL()
	}
	if u, ok := b.Destination.(interface{ APIURL() string }); ok {
		bi.DestinationURL = u.APIURL()
	}
	if s, ok := b.Destination.(interface{ BreakerState() string }); ok {
		bi.Breaker = s.BreakerState()
	}
	return bi
}
