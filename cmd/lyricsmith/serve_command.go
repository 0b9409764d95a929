package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lyricsmith/internal/logging"
	"lyricsmith/internal/run"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	var logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return run.Run(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides server.bind)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	return cmd
}
