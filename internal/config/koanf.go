// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"lyrisync.yaml",
	"lyrisync.yml",
	"lyrisync_config.yaml",
	"/etc/lyrisync/lyrisync.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "LYRISYNC_"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			VMixAPIURL:     DefaultVMixAPIURL,
			OpenLPWSURL:    DefaultOpenLPWSURL,
			VMixTitleInput: DefaultTitleInput,
			VMixTitleField: DefaultTitleField,
			APIPort:        DefaultAPIPort,

			PollIntervalSec:       2,
			OverlayChannel:        1,
			AutoOverlayOnSend:     true,
			AutoOverlayOutOnClear: true,
			OverlayAlwaysOn:       false,
			AutoClearIdleSec:      0, // disabled
			MaxCharsPerLine:       36,
			ClearOnBlank:          true,
		},
		API: APIConfig{
			Host:              "127.0.0.1",
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     120,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Destination: DestinationConfig{
			Timeout:         4 * time.Second,
			WaveTimeout:     10 * time.Second,
			BreakerFailures: 5,
			BreakerOpenTime: 10 * time.Second,
			BreakerInterval: 30 * time.Second,
		},
		Source: SourceConfig{
			InitialBackoff:   2 * time.Second,
			MaxBackoff:       15 * time.Second,
			HandshakeTimeout: 10 * time.Second,
			PingInterval:     20 * time.Second,
			ReadTimeout:      60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration from defaults, the first config file
// found and the environment, then normalizes and validates it.
func LoadWithKoanf() (*Config, error) {
	return loadWithKoanf(findConfigFile())
}

// LoadFile is LoadWithKoanf with an explicit config file. An empty path
// falls back to the default search.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return LoadWithKoanf()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return loadWithKoanf(path)
}

func loadWithKoanf(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.Settings.ConnectionsFile != "" {
		conns, err := ReadConnectionsFile(cfg.Settings.ConnectionsFile)
		if err != nil {
			return nil, err
		}
		cfg.Connections = conns
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default locations.
// Returns empty string if no config file is found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists paths that accept comma-separated env values.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps short environment names (without the prefix) to koanf paths.
var envMappings = map[string]string{
	"vmix_api_url":     "settings.vmix_api_url",
	"openlp_ws_url":    "settings.openlp_ws_url",
	"vmix_title_input": "settings.vmix_title_input",
	"vmix_title_field": "settings.vmix_title_field",
	"api_port":         "settings.api_port",
	"connections_file": "settings.connections_file",

	"api_host":            "api.host",
	"cors_origins":        "api.cors_origins",
	"rate_limit_requests": "api.rate_limit_reqs",
	"rate_limit_window":   "api.rate_limit_window",
	"disable_rate_limit":  "api.rate_limit_disabled",

	"vmix_timeout": "destination.timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps LYRISYNC_* variables to koanf paths. Short aliases
// come from envMappings; otherwise "__" separates nesting levels. Any other
// variable is skipped so unrelated environment cannot pollute the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	if strings.Contains(key, "__") {
		return strings.ReplaceAll(key, "__", ".")
	}
	return ""
}
