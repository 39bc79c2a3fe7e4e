// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package services

import (
	"context"
	"errors"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/lyrisync/internal/source"
)

// Listener matches *source.Listener.
type Listener interface {
	Serve(ctx context.Context) error
	Name() string
}

// SourceService supervises one source listener. The listener reconnects on
// its own, so Serve only returns on shutdown, Stop, or a panic.
type SourceService struct {
	listener Listener
	name     string
}

// NewSourceService wraps l.
func NewSourceService(l Listener) *SourceService {
	return &SourceService{
		listener: l,
		name:     "source:" + l.Name(),
	}
}

// Serve implements suture.Service.
func (s *SourceService) Serve(ctx context.Context) error {
	err := s.listener.Serve(ctx)
	switch {
	case errors.Is(err, source.ErrStopped):
		return suture.ErrDoNotRestart
	case errors.Is(err, source.ErrAlreadyRunning):
		// Started outside the tree; that loop owns the connection.
		return suture.ErrDoNotRestart
	}
	return err
}

func (s *SourceService) String() string {
	return s.name
}
