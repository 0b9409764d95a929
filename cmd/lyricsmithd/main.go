// Command lyricsmithd runs the LyricSmith API server.
//
// Configuration is read from $LYRICSMITH_CONFIG when set, otherwise from the
// default locations (~/.config/lyricsmith/config.toml, ./lyricsmith.toml).
package main

import (
	"context"
	"log"
	"os"

	"lyricsmith/internal/config"
	"lyricsmith/internal/logging"
	"lyricsmith/internal/run"
)

func main() {
	cfg, _, _, err := config.Load(os.Getenv("LYRICSMITH_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if err := run.Run(context.Background(), cfg, logger); err != nil {
		logger.Error("lyricsmithd exited", logging.Error(err))
		os.Exit(1)
	}
}
