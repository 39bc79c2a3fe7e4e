// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package bridge

import (
	"errors"
	"fmt"
)

// ErrUnknownAction rejects a command the bridge does not implement.
var ErrUnknownAction = errors.New("bridge: unknown action")

// Action names a dispatchable command.
type Action string

const (
	ActionSetText        Action = "set_text"
	ActionShow           Action = "show"
	ActionShowText       Action = "show_text"
	ActionClear          Action = "clear"
	ActionToggleOverlay  Action = "toggle_overlay"
	ActionStartRecording Action = "start_recording"
	ActionStopRecording  Action = "stop_recording"
)

// Origin tags where a command came from, for logs and metrics.
type Origin string

const (
	OriginAPI    Origin = "api"
	OriginSource Origin = "source"
	OriginIdle   Origin = "idle"
)

// Command is one unit of work for the dispatch loop.
type Command struct {
	Action Action
	Text   string // SetText and ShowText only
	Origin Origin
}

// SetText returns a command that stores text without touching destinations.
func SetText(text string) Command { return Command{Action: ActionSetText, Text: text} }

// Show returns a command that sends the stored text to every destination.
func Show() Command { return Command{Action: ActionShow} }

// ShowText returns a command that stores text and shows it in one loop step,
// so no source event can replace the text in between.
func ShowText(text string) Command { return Command{Action: ActionShowText, Text: text} }

// Clear returns a command that blanks every destination field.
func Clear() Command { return Command{Action: ActionClear} }

// ToggleOverlay returns a command that re-issues the overlay show.
func ToggleOverlay() Command { return Command{Action: ActionToggleOverlay} }

// StartRecording returns a command that starts recording on the first destination.
func StartRecording() Command { return Command{Action: ActionStartRecording} }

// StopRecording returns a command that stops recording on the first destination.
func StopRecording() Command { return Command{Action: ActionStopRecording} }

// From returns a copy of c tagged with origin.
func (c Command) From(origin Origin) Command {
	c.Origin = origin
	return c
}

func (c Command) validate() error {
	switch c.Action {
	case ActionSetText, ActionShow, ActionShowText, ActionClear, ActionToggleOverlay, ActionStartRecording, ActionStopRecording:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, c.Action)
	}
}

func (c Command) origin() string {
	if c.Origin == "" {
		return string(OriginAPI)
	}
	return string(c.Origin)
}
