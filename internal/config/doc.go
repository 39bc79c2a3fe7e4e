// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

/*
Package config loads the LyriSync configuration once at startup.

# Sources

Configuration is layered with Koanf v2, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. A YAML file: $CONFIG_PATH, ./lyrisync.yaml, ./lyrisync_config.yaml or
    /etc/lyrisync/lyrisync.yaml, whichever exists first
 3. Environment variables with the LYRISYNC_ prefix

Environment variables either use a short alias (LYRISYNC_API_PORT,
LYRISYNC_LOG_LEVEL, ...) or address any scalar key with a double underscore
per nesting level:

	LYRISYNC_SETTINGS__MAX_CHARS_PER_LINE=32
	LYRISYNC_DESTINATION__TIMEOUT=2s

The connections list can only be set from YAML or from a JSON file named by
settings.connections_file, which accepts the same export format as
`lyrisync connections export`.

# Example File

	settings:
	  api_port: 5000
	  overlay_channel: 1
	  max_chars_per_line: 36
	  auto_clear_idle_sec: 0
	connections:
	  - name: Sanctuary
	    openlp_ip: 192.168.1.20
	    ws_port: 4317
	    vmix_api_url: http://192.168.1.30:8088/api
	    mappings:
	      - {input: SongTitle, field: Message.Text}
	      - {input: LowerThird, field: Line1.Text}

When no connection is configured, a single legacy connection is built from
settings.openlp_ws_url, settings.vmix_api_url, settings.vmix_title_input and
settings.vmix_title_field.

Config is immutable after Load and safe for concurrent reads.
*/
package config
