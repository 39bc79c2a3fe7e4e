// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/lyrisync/internal/config"
)

func newConnectionsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connections",
		Short: "Inspect, export and check configured connections",
	}
	cmd.AddCommand(newConnectionsExportCmd(opts), newConnectionsCheckCmd(opts))
	return cmd
}

func newConnectionsExportCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the effective connections as importable JSON",
		Long: `Writes {"connections": [...]} after defaults and the legacy
single-connection fallback have been applied. The output can be used as
settings.connections_file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return config.WriteConnections(cmd.OutOrStdout(), cfg.Connections)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := config.WriteConnections(f, cfg.Connections); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

type probeResult struct {
	Name        string
	SourceURL   string
	SourceErr   error
	DestURL     string
	DestOK      bool
	Recording   bool
	Mappings    int
}

func newConnectionsCheckCmd(opts *rootOptions) *cobra.Command {
	var (
		probe   bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and optionally probe every endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			results := make([]probeResult, len(cfg.Connections))
			for i, conn := range cfg.Connections {
				results[i] = probeResult{
					Name:      conn.Name,
					SourceURL: conn.SourceURL(),
					DestURL:   conn.VMixAPIURL,
					Mappings:  len(conn.Mappings),
				}
			}
			if probe {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				defer cancel()
				probeAll(ctx, cfg, results)
			}
			return writeCheck(cmd.OutOrStdout(), results, probe)
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "connect to each source and query each destination")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "probe timeout")
	return cmd
}

// probeAll checks every connection concurrently. Results are written in
// place, one goroutine per index.
func probeAll(ctx context.Context, cfg *config.Config, results []probeResult) {
	dialer := newDialer(cfg)
	var g errgroup.Group
	for i, conn := range cfg.Connections {
		g.Go(func() error {
			r := &results[i]

			if c, err := dialer.Dial(ctx, r.SourceURL); err != nil {
				r.SourceErr = err
			} else {
				_ = c.Close()
			}

			ctrl := newController(cfg, conn)
			defer ctrl.Close()
			st := ctrl.Status(ctx)
			r.DestOK = st.Reachable
			r.Recording = st.Recording
			return nil
		})
	}
	_ = g.Wait()
}

func writeCheck(w io.Writer, results []probeResult, probed bool) error {
	failed := 0
	for _, r := range results {
		fmt.Fprintf(w, "%s: %d mapping(s)\n", r.Name, r.Mappings)
		fmt.Fprintf(w, "  source:      %s", r.SourceURL)
		if probed {
			if r.SourceErr != nil {
				failed++
				fmt.Fprintf(w, "  UNREACHABLE (%v)", r.SourceErr)
			} else {
				fmt.Fprint(w, "  ok")
			}
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  destination: %s", r.DestURL)
		if probed {
			if !r.DestOK {
				failed++
				fmt.Fprint(w, "  UNREACHABLE")
			} else {
				fmt.Fprintf(w, "  ok (recording=%t)", r.Recording)
			}
		}
		fmt.Fprintln(w)
	}
	if failed > 0 {
		return fmt.Errorf("%d endpoint(s) unreachable", failed)
	}
	_, err := fmt.Fprintln(w, "configuration ok")
	return err
}
