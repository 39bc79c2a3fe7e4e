// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lyrisync/internal/validation"
)

var (
	errBodyTooLarge  = errors.New("request body too large")
	errMalformedBody = errors.New("request body must be a JSON object")
)

// ShowLyricsRequest is the optional body of POST /show_lyrics. A missing
// body or a body without "text" shows the current lyrics unchanged; a null
// text clears them before showing.
type ShowLyricsRequest struct {
	Text string `json:"text" validate:"max=4096"`

	hasText bool
}

func decodeShowLyrics(w http.ResponseWriter, r *http.Request, limit int64) (*ShowLyricsRequest, error) {
	req := &ShowLyricsRequest{}
	if r.Body == nil {
		return req, nil
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, fmt.Errorf("read body: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return req, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, errMalformedBody
	}

	raw, ok := fields["text"]
	if !ok {
		return req, nil
	}
	text, err := textValue(raw)
	if err != nil {
		return nil, err
	}
	req.Text = text
	req.hasText = true

	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}
	return req, nil
}

// textValue accepts a string, null (as ""), or a number or boolean literal
// (as its JSON text) for "text".
func textValue(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0, string(raw) == "null":
		return "", nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errMalformedBody
		}
		return s, nil
	case raw[0] == '{', raw[0] == '[':
		return "", errors.New("text must be a string")
	default:
		return string(raw), nil
	}
}

func writeDecodeError(rw *ResponseWriter, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
	case errors.Is(err, errBodyTooLarge):
		rw.Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, err.Error())
	default:
		rw.BadRequest(err.Error())
	}
}

// sanitizeLogValue escapes control characters so client input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
