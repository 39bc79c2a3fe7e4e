// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package destination

import (
	"bytes"
	"context"
	"encoding/xml"
	"strconv"
	"strings"
)

// Status is the destination state read from its status document.
// The zero value means "unknown", which callers treat as off.
type Status struct {
	Recording bool         `json:"recording"`
	Overlays  map[int]bool `json:"overlays,omitempty"`
	Reachable bool         `json:"reachable"`
}

// OverlayOn reports whether overlay channel n is active.
func (s Status) OverlayOn(n int) bool {
	return s.Overlays[n]
}

type overlayNode struct {
	Number string `xml:"number,attr"`
	Input  string `xml:",chardata"`
}

// statusDocument covers both the flat <overlayN>true</overlayN> form and the
// <overlays><overlay number="N">input</overlay></overlays> form. The root
// element name is not checked.
type statusDocument struct {
	Recording string        `xml:"recording"`
	Overlay1  string        `xml:"overlay1"`
	Overlay2  string        `xml:"overlay2"`
	Overlay3  string        `xml:"overlay3"`
	Overlay4  string        `xml:"overlay4"`
	Overlays  []overlayNode `xml:"overlays>overlay"`
	Inputs    []inputNode   `xml:"inputs>input"`
}

// Status fetches and parses the status document. Any failure, including an
// open circuit or malformed XML, returns the zero Status.
func (c *Controller) Status(ctx context.Context) Status {
	body, err := c.call(ctx, "", nil)
	if err != nil {
		return Status{}
	}
	doc, err := decodeStatus(body)
	if err != nil {
		c.log.Debug().Err(err).Msg("Unparseable destination status document")
		return Status{}
	}
	return doc.status()
}

func decodeStatus(body []byte) (*statusDocument, error) {
	var doc statusDocument
	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *statusDocument) status() Status {
	st := Status{
		Recording: isTrue(d.Recording),
		Overlays:  make(map[int]bool, MaxOverlayChannel),
		Reachable: true,
	}
	flat := [MaxOverlayChannel]string{d.Overlay1, d.Overlay2, d.Overlay3, d.Overlay4}
	for i, v := range flat {
		st.Overlays[i+1] = isTrue(v)
	}
	for _, o := range d.Overlays {
		n, err := strconv.Atoi(strings.TrimSpace(o.Number))
		if err != nil || n < MinOverlayChannel || n > MaxOverlayChannel {
			continue
		}
		if strings.TrimSpace(o.Input) != "" {
			st.Overlays[n] = true
		}
	}
	return st
}

func isTrue(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
