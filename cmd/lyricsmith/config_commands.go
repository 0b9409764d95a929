package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lyricsmith/internal/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or scaffold the lyricsmith configuration",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand())
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		dest      string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample config.toml",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := initTarget(dest)
			if err != nil {
				return err
			}
			if err := writeSampleConfig(target, overwrite); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set llm.api_key (or export OPENAI_API_KEY) to generate real lyrics; without it the mock writer is used.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&dest, "path", "p", "", "Where to write the file (defaults to the user config dir)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(raw string) (string, error) {
	if raw = strings.TrimSpace(raw); raw != "" {
		expanded, err := config.ExpandPath(raw)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", raw, err)
		}
		return expanded, nil
	}
	fallback, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("locate default config path: %w", err)
	}
	return fallback, nil
}

func writeSampleConfig(target string, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("prepare %s: %w", filepath.Dir(target), err)
	}
	if !overwrite {
		_, err := os.Stat(target)
		switch {
		case err == nil:
			return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("stat %s: %w", target, err)
		}
	}
	if err := config.CreateSample(target); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and report the effective settings",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			flagPath, _ := cmd.Flags().GetString("config")
			cfg, path, exists, err := config.Load(flagPath)
			if err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			summarizeConfig(cmd.OutOrStdout(), cfg, path, exists)
			return nil
		},
	}
}

func summarizeConfig(out io.Writer, cfg *config.Config, path string, exists bool) {
	source := path
	if !exists {
		source += " (not found, using defaults)"
	}
	fmt.Fprintf(out, "Config path: %s\n", source)
	fmt.Fprintf(out, "Database: %s\n", cfg.Paths.DatabasePath)
	fmt.Fprintf(out, "Rate limit backend: %s\n", cfg.RateLimit.Backend)
	fmt.Fprintf(out, "LLM provider: %s (configured: %s)\n", cfg.LLM.Provider, yesNo(cfg.LLMConfigured()))
	fmt.Fprintf(out, "Voice synthesis: %s\n", yesNo(cfg.VoiceConfigured()))
	fmt.Fprintln(out, "Configuration valid")
}
