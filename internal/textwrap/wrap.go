// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

// Package textwrap soft-wraps a lyric line for a two-line title graphic.
package textwrap

import (
	"strings"
	"unicode/utf8"
)

// Wrap splits text into at most two lines.
//
// Words are added to the first line while the line stays within maxChars.
// The first word is always accepted, so a single long word is never split.
// Once a word does not fit, it and every word after it go to the second
// line, which is not wrapped further. Whitespace runs collapse to one space.
//
// Widths are counted in characters (runes), not bytes.
//
// maxChars <= 0 disables wrapping and returns the normalized text.
func Wrap(text string, maxChars int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if maxChars <= 0 {
		return strings.Join(words, " ")
	}

	var line1 strings.Builder
	line1.WriteString(words[0])
	width := utf8.RuneCountInString(words[0])

	i := 1
	for ; i < len(words); i++ {
		w := utf8.RuneCountInString(words[i])
		if width+1+w > maxChars {
			break
		}
		line1.WriteByte(' ')
		line1.WriteString(words[i])
		width += 1 + w
	}

	if i == len(words) {
		return line1.String()
	}
	return line1.String() + "\n" + strings.Join(words[i:], " ")
}
