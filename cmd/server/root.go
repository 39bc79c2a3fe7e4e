// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/lyrisync/internal/config"
	"github.com/tomtom215/lyrisync/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "lyrisync",
		Short:         "Live lyrics to video title bridge",
		Long:          `LyriSync mirrors live lyric text from OpenLP into vMix title inputs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "",
		fmt.Sprintf("config file (default: $%s or the first of %v)", config.ConfigPathEnvVar, config.DefaultConfigPaths))
	flags.StringVar(&opts.logLevel, "log-level", "", "override logging.level")
	flags.StringVar(&opts.logFormat, "log-format", "", "override logging.format (json or console)")

	cmd.AddCommand(
		newServeCmd(opts),
		newDiscoverCmd(opts),
		newConnectionsCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load reads and validates configuration, then initializes logging from it.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	return cfg, nil
}
