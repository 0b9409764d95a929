package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"lyricsmith/internal/config"
	"lyricsmith/internal/logging"
	"lyricsmith/internal/preflight"
)

// ErrAlreadyRunning is returned when another server holds the database lock.
var ErrAlreadyRunning = errors.New("another lyricsmith server is already using this database")

// Run starts the server and blocks until ctx is cancelled or SIGINT/SIGTERM
// arrives.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	signalCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	lock, err := acquireLock(cfg.LockPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release server lock", logging.Error(err))
		}
	}()

	logStartupChecks(signalCtx, cfg, logger)

	rt, err := Build(signalCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("failed to close runtime", logging.Error(err))
		}
	}()

	logger.Info("lyricsmith server starting",
		logging.String(logging.FieldEventType, "server_start"),
		logging.String("bind", cfg.Server.Bind),
		logging.String("database", rt.Store.Path()),
		logging.String("rate_limit_backend", cfg.RateLimit.Backend),
		logging.String("llm_provider", cfg.LLM.Provider),
		logging.Bool("llm_configured", cfg.LLMConfigured()),
		logging.Bool("voice_configured", cfg.VoiceConfigured()),
		logging.String("lock", cfg.LockPath()),
	)

	group, groupCtx := errgroup.WithContext(signalCtx)
	group.Go(func() error {
		return rt.Server.Serve(groupCtx)
	})
	if rt.Janitor != nil {
		group.Go(func() error {
			return rt.Janitor.Run(groupCtx)
		})
	}

	err = group.Wait()
	logger.Info("lyricsmith server shutting down")
	return err
}

func acquireLock(path string) (*flock.Flock, error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyRunning
	}
	return lock, nil
}

// logStartupChecks reports failed preflight checks as warnings. They never
// block startup.
func logStartupChecks(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	for _, result := range preflight.Failed(preflight.RunAll(ctx, cfg)) {
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
		)
	}
}
