// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package destination

import "strconv"

// OverlayAction is a requested overlay transition.
//
// Show and Hide map to the protocol's animated In and Out commands. ForceOn
// and ForceOff cut without a transition. The protocol has no toggle, so
// repeated Show calls do not alternate the overlay.
type OverlayAction int

const (
	OverlayShow OverlayAction = iota
	OverlayHide
	OverlayForceOn
	OverlayForceOff
)

// MinOverlayChannel and MaxOverlayChannel bound the overlay channel number.
const (
	MinOverlayChannel = 1
	MaxOverlayChannel = 4
)

// verb returns the protocol suffix. Unknown actions fall back to In.
func (a OverlayAction) verb() string {
	switch a {
	case OverlayHide:
		return "Out"
	case OverlayForceOn:
		return "On"
	case OverlayForceOff:
		return "Off"
	default:
		return "In"
	}
}

func (a OverlayAction) String() string {
	switch a {
	case OverlayShow:
		return "show"
	case OverlayHide:
		return "hide"
	case OverlayForceOn:
		return "force_on"
	case OverlayForceOff:
		return "force_off"
	default:
		return "unknown"
	}
}

// ClampChannel restricts n to the valid overlay range.
func ClampChannel(n int) int {
	if n < MinOverlayChannel {
		return MinOverlayChannel
	}
	if n > MaxOverlayChannel {
		return MaxOverlayChannel
	}
	return n
}

// overlayFunction builds e.g. OverlayInput2Out.
func overlayFunction(channel int, action OverlayAction) string {
	return "OverlayInput" + strconv.Itoa(ClampChannel(channel)) + action.verb()
}
