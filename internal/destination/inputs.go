// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package destination

import (
	"context"
	"fmt"
	"strings"
)

// Input is a destination input and the text fields it exposes.
type Input struct {
	Name   string   `json:"name"`
	Number string   `json:"number,omitempty"`
	Type   string   `json:"type,omitempty"`
	Fields []string `json:"fields"`
}

type textNode struct {
	Name string `xml:"name,attr"`
}

type inputNode struct {
	Number     string     `xml:"number,attr"`
	Title      string     `xml:"title,attr"`
	ShortTitle string     `xml:"shortTitle,attr"`
	Type       string     `xml:"type,attr"`
	Text       []textNode `xml:"text"`
	Data       []textNode `xml:"data>text"`
}

func (n inputNode) name() string {
	for _, s := range []string{n.Title, n.ShortTitle, n.Number} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return "Unknown"
}

// Inputs lists the destination's inputs and their text field names so
// mappings can be picked instead of typed. Unlike Status, failures are
// returned because discovery is operator driven.
func (c *Controller) Inputs(ctx context.Context) ([]Input, error) {
	body, err := c.call(ctx, "", nil)
	if err != nil {
		return nil, fmt.Errorf("discover inputs of %s: %w", c.name, err)
	}
	doc, err := decodeStatus(body)
	if err != nil {
		return nil, fmt.Errorf("parse status document of %s: %w", c.name, err)
	}
	return doc.inputs(), nil
}

// inputs keeps document order. The first input seen under a name wins.
func (d *statusDocument) inputs() []Input {
	out := make([]Input, 0, len(d.Inputs))
	seen := make(map[string]bool, len(d.Inputs))
	for _, n := range d.Inputs {
		name := n.name()
		if seen[name] {
			continue
		}
		seen[name] = true

		fields := []string{}
		have := map[string]bool{}
		for _, group := range [][]textNode{n.Data, n.Text} {
			for _, t := range group {
				if t.Name == "" || have[t.Name] {
					continue
				}
				have[t.Name] = true
				fields = append(fields, t.Name)
			}
		}
		out = append(out, Input{Name: name, Number: n.Number, Type: n.Type, Fields: fields})
	}
	return out
}
