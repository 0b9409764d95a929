package main

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"lyricsmith/internal/store"
)

type usageReport struct {
	Since     time.Time      `json:"since"`
	Counts    store.Counts   `json:"counts"`
	Endpoints map[string]int `json:"endpoints"`
}

func newUsageCommand(ctx *commandContext) *cobra.Command {
	var since time.Duration
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show stored totals and API usage per endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if since <= 0 {
				return fmt.Errorf("--since must be positive")
			}
			return ctx.withStore(func(st *store.Store) error {
				counts, err := st.Counts(cmd.Context())
				if err != nil {
					return err
				}
				report := usageReport{Since: time.Now().Add(-since).UTC(), Counts: counts}
				report.Endpoints, err = st.UsageStats(cmd.Context(), report.Since)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, report)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Songs: %d  Revisions: %d  Voice generations: %d\n",
					counts.Songs, counts.Revisions, counts.VoiceGenerations)
				if len(report.Endpoints) == 0 {
					fmt.Fprintf(out, "No API usage in the last %s\n", since)
					return nil
				}
				endpoints := make([]string, 0, len(report.Endpoints))
				for endpoint := range report.Endpoints {
					endpoints = append(endpoints, endpoint)
				}
				slices.Sort(endpoints)
				rows := make([][]string, 0, len(endpoints))
				for _, endpoint := range endpoints {
					rows = append(rows, []string{endpoint, strconv.Itoa(report.Endpoints[endpoint])})
				}
				fmt.Fprintf(out, "Requests in the last %s:\n", since)
				fmt.Fprintln(out, renderTable([]column{{header: "Endpoint"}, {header: "Requests", right: true}}, rows))
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&since, "since", time.Hour, "Usage window")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Purge API usage records older than the retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			horizon := olderThan
			if horizon <= 0 {
				horizon = cfg.UsageRetention()
			}
			return ctx.withStore(func(st *store.Store) error {
				removed, err := st.PurgeUsage(cmd.Context(), time.Now().Add(-horizon))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d usage records older than %s\n", removed, horizon)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Retention horizon (defaults to rate_limit.retention_seconds)")
	return cmd
}
