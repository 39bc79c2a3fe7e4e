// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by the configuration loader and the
// control API. Field names in messages follow the koanf or json tag of the
// field, so a configuration fault reads the way the YAML file is written:
//
//	connections[1].vmix_api_url must be a valid http(s) URL
//
// # Custom Tags
//
//   - wsurl: a ws:// or wss:// URL with a host
//   - httpurl: an http:// or https:// URL with a host
//
// # Usage
//
//	type ShowRequest struct {
//	    Text *string `json:"text" validate:"omitempty,max=4096"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// The validator caches struct information and is safe for concurrent use.
package validation
