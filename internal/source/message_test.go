// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package source

import "testing"

func TestParseMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		frame  string
		want   Content
		wantOK bool
	}{
		{"empty text is blank", `{"text": ""}`, Content{Text: "", IsBlank: true}, true},
		{"plain text", `{"text": "hello"}`, Content{Text: "hello"}, true},
		{"type overrides text", `{"text": "hello", "type": "blank"}`, Content{Text: "hello", IsBlank: true}, true},
		{"action clear", `{"text": "hello", "action": "CLEAR"}`, Content{Text: "hello", IsBlank: true}, true},
		{"whitespace text", `{"text": "  \n "}`, Content{Text: "  \n ", IsBlank: true}, true},
		{"missing text", `{"type": "slide"}`, Content{IsBlank: true}, true},
		{"null text", `{"text": null}`, Content{IsBlank: true}, true},
		{"numeric text", `{"text": 316}`, Content{Text: "316"}, true},
		{"true text", `{"text": true}`, Content{Text: "True"}, true},
		{"false text is blank", `{"text": false}`, Content{IsBlank: true}, true},
		{"zero text is blank", `{"text": 0}`, Content{IsBlank: true}, true},
		{"float zero text is blank", `{"text": 0.0}`, Content{IsBlank: true}, true},
		{"decimal text", `{"text": 1.5}`, Content{Text: "1.5"}, true},
		{"unrelated type", `{"text": "grace", "type": "slide"}`, Content{Text: "grace"}, true},
		{"unicode escape", `{"text": "café"}`, Content{Text: "café"}, true},
		{"leading whitespace", "  {\"text\": \"x\"}", Content{Text: "x"}, true},
		{"not json", `hello`, Content{}, false},
		{"truncated", `{"text": "hel`, Content{}, false},
		{"array", `["text"]`, Content{}, false},
		{"string", `"text"`, Content{}, false},
		{"empty frame", ``, Content{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseMessage([]byte(tt.frame))
			if ok != tt.wantOK {
				t.Fatalf("ParseMessage(%q) ok = %v, want %v", tt.frame, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseMessage(%q) = %+v, want %+v", tt.frame, got, tt.want)
			}
		})
	}
}
