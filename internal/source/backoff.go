// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package source

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	// DefaultInitialBackoff is the wait after the first failed attempt.
	DefaultInitialBackoff = 2 * time.Second

	// DefaultMaxBackoff caps the wait between attempts.
	DefaultMaxBackoff = 15 * time.Second
)

// NewBackoff returns the reconnect policy: initial, doubling on every call
// to NextBackOff, capped at max, without jitter.
func NewBackoff(initial, maxWait time.Duration) *backoff.ExponentialBackOff {
	if initial <= 0 {
		initial = DefaultInitialBackoff
	}
	if maxWait < initial {
		maxWait = initial
	}
	b := &backoff.ExponentialBackOff{
		InitialInterval:     initial,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         maxWait,
	}
	b.Reset()
	return b
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
