// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/lyrisync/internal/bridge"
)

// Loop matches *bridge.Bridge.
type Loop interface {
	Run(ctx context.Context) error
}

// LoopService supervises the bridge dispatch loop.
//
// The loop runs once per process. If it ends before ctx does (a panic in a
// command, for instance), suture calls Serve again, Run reports
// bridge.ErrAlreadyRunning, and the tree is terminated.
type LoopService struct {
	loop Loop
	name string
}

// NewLoopService wraps loop.
func NewLoopService(loop Loop) *LoopService {
	return &LoopService{
		loop: loop,
		name: "bridge-loop",
	}
}

// Serve implements suture.Service.
func (l *LoopService) Serve(ctx context.Context) error {
	err := l.loop.Run(ctx)
	if errors.Is(err, bridge.ErrAlreadyRunning) {
		return fmt.Errorf("%w: bridge loop cannot be restarted", suture.ErrTerminateSupervisorTree)
	}
	return err
}

func (l *LoopService) String() string {
	return l.name
}
