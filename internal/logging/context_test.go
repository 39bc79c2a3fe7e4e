// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestCorrelationIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := CorrelationIDFromContext(ctx); got != "" {
		t.Fatalf("empty context returned %q", got)
	}

	ctx = ContextWithNewCorrelationID(ctx)
	id := CorrelationIDFromContext(ctx)
	if len(id) != 8 {
		t.Errorf("correlation id %q should be 8 chars", id)
	}
}

func TestRequestIDIsUUID(t *testing.T) {
	t.Parallel()

	id := GenerateRequestID()
	if len(id) != 36 {
		t.Errorf("request id %q is not a UUID", id)
	}
	ctx := ContextWithRequestID(context.Background(), id)
	if RequestIDFromContext(ctx) != id {
		t.Error("request id not stored in context")
	}
}

func TestCtxAddsFields(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	defer Init(DefaultConfig())

	ctx := ContextWithCorrelationID(context.Background(), "abc12345")
	ctx = ContextWithRequestID(ctx, "req-1")
	Ctx(ctx).Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"correlation_id":"abc12345"`) || !strings.Contains(out, `"request_id":"req-1"`) {
		t.Errorf("context fields missing: %s", out)
	}
}
