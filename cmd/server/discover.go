// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/lyrisync/internal/config"
	"github.com/tomtom215/lyrisync/internal/destination"
)

type discoverResult struct {
	Connection string              `json:"connection"`
	APIURL     string              `json:"api_url"`
	Inputs     []destination.Input `json:"inputs"`
	Error      string              `json:"error,omitempty"`
}

func newDiscoverCmd(opts *rootOptions) *cobra.Command {
	var (
		only    string
		asJSON  bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List switcher inputs and their text fields",
		Long: `Queries every configured destination for its inputs so title
input names and field names can be copied into the mappings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			results, err := discover(ctx, cfg, only)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			return writeDiscoverTable(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().StringVar(&only, "connection", "", "only query the named connection")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "overall timeout")
	return cmd
}

// discover queries each selected connection in turn. A failing destination
// is reported in its result and does not stop the others.
func discover(ctx context.Context, cfg *config.Config, only string) ([]discoverResult, error) {
	var results []discoverResult
	for _, conn := range cfg.Connections {
		if only != "" && !strings.EqualFold(conn.Name, only) {
			continue
		}
		ctrl := newController(cfg, conn)
		inputs, err := ctrl.Inputs(ctx)
		ctrl.Close()

		r := discoverResult{Connection: conn.Name, APIURL: conn.VMixAPIURL, Inputs: inputs}
		if err != nil {
			r.Error = err.Error()
		}
		results = append(results, r)
	}
	if only != "" && len(results) == 0 {
		return nil, fmt.Errorf("no connection named %q", only)
	}
	return results, nil
}

func writeDiscoverTable(w io.Writer, results []discoverResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONNECTION\tINPUT\tNUMBER\tTYPE\tFIELDS")
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\t(error: %s)\t\t\t\n", r.Connection, r.Error)
			continue
		}
		for _, in := range r.Inputs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Connection, in.Name, in.Number, in.Type, strings.Join(in.Fields, ", "))
		}
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
