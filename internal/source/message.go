// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package source

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// message mirrors the loosely typed frames a presentation source sends.
// Fields are decoded lazily because sources disagree on their types.
type message struct {
	Text   json.RawMessage `json:"text"`
	Type   json.RawMessage `json:"type"`
	Action json.RawMessage `json:"action"`
}

// ParseMessage classifies one frame. ok is false when the frame is not a JSON
// object; such frames must be dropped without raising an event.
//
// A missing or null text is the empty string, as are false and numeric zero.
// true renders as "True" and other numbers as their JSON literal. The frame is blank when the
// text is empty or whitespace, or when type or action is "blank" or "clear"
// in any letter case.
func ParseMessage(data []byte) (Content, bool) {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "{") {
		return Content{}, false
	}

	var msg message
	if err := json.Unmarshal([]byte(trimmed), &msg); err != nil {
		return Content{}, false
	}

	text := scalar(msg.Text)
	blank := strings.TrimSpace(text) == "" ||
		isBlankMarker(scalar(msg.Type)) ||
		isBlankMarker(scalar(msg.Action))

	return Content{Text: text, IsBlank: blank}, true
}

// scalar renders a JSON scalar as text. Objects, arrays, null, false and
// zero render empty.
func scalar(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	switch s[0] {
	case '"':
		var v string
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
		return ""
	case '{', '[', 'f':
		return ""
	case 't':
		return "True"
	default:
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == 0 {
			return ""
		}
		return s
	}
}

func isBlankMarker(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blank", "clear":
		return true
	default:
		return false
	}
}
