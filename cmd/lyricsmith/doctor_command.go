package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lyricsmith/internal/preflight"
	"lyricsmith/internal/store"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, storage, and provider access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cmd.Context(), cfg)
			st, openErr := store.Open(cfg)
			if openErr != nil {
				results = append(results, preflight.Result{Name: "Database", Detail: fmt.Sprintf("%s (error: %v)", cfg.Paths.DatabasePath, openErr)})
			} else {
				results = append(results, preflight.CheckStore(cmd.Context(), st.Path(), st))
				_ = st.Close()
			}

			fmt.Fprintln(out, renderHeading("LyricSmith doctor", colorize))
			fmt.Fprintln(out, renderStatusLine("Bind", statusInfo, cfg.Server.Bind+cfg.Server.APIPrefix, colorize))
			fmt.Fprintln(out, renderStatusLine("Rate limit", statusInfo,
				fmt.Sprintf("%d per %ds (%s, fail open: %s)", cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds,
					cfg.RateLimit.Backend, yesNo(cfg.RateLimit.FailOpen)), colorize))
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failed))
			}
			return nil
		},
	}
}
