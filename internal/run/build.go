package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"lyricsmith/internal/api"
	"lyricsmith/internal/config"
	"lyricsmith/internal/logging"
	"lyricsmith/internal/ratelimit"
	"lyricsmith/internal/server"
	"lyricsmith/internal/services/llm"
	"lyricsmith/internal/services/tts"
	"lyricsmith/internal/songwriting"
	"lyricsmith/internal/store"
)

const previewPolicyName = "voice-preview"

// Runtime holds the constructed collaborators of one server process.
type Runtime struct {
	Config  *config.Config
	Store   *store.Store
	Limiter *ratelimit.Limiter
	Janitor *ratelimit.Janitor
	Service *api.SongService
	Server  *server.Server

	closers []func() error
}

// Build constructs every collaborator from cfg. The caller must Close the
// returned runtime.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open song store: %w", err)
	}
	rt := &Runtime{Config: cfg, Store: st}
	rt.closers = append(rt.closers, st.Close)

	limiterStore, closeLimiter, err := newLimiterStore(ctx, cfg, st)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	if closeLimiter != nil {
		rt.closers = append(rt.closers, closeLimiter)
	}
	rt.Limiter = ratelimit.New(limiterStore, ratelimit.WithLogger(logger))
	rt.Janitor = ratelimit.NewJanitor(limiterStore, cfg.CleanupInterval(), cfg.UsageRetention(), logger)

	writer, llmConfigured := newWriter(cfg, logger)
	voiceClient := tts.NewClient(tts.Config{
		Enabled:        cfg.Voice.Enabled,
		APIKey:         cfg.Voice.APIKey,
		BaseURL:        cfg.Voice.BaseURL,
		Model:          cfg.Voice.Model,
		TimeoutSeconds: cfg.Voice.TimeoutSeconds,
	})

	rt.Service = api.NewSongService(api.Options{
		Store:  st,
		Writer: writer,
		Voice:  voiceClient,
		Preview: api.PreviewSettings{
			DefaultSeconds: cfg.Voice.PreviewDefaultSeconds,
			MaxSeconds:     cfg.Voice.PreviewMaxSeconds,
			Limiter:        rt.Limiter,
			Policy: ratelimit.Policy{
				Name:      previewPolicyName,
				Requests:  cfg.Voice.PreviewRateLimitRequests,
				Window:    cfg.PreviewRateLimitWindow(),
				Recording: ratelimit.RecordAlways,
			},
			FailOpen: cfg.RateLimit.FailOpen,
		},
		Provider: api.ProviderInfo{
			LLMProvider:     cfg.LLM.Provider,
			LLMModel:        cfg.LLM.Model,
			LLMConfigured:   llmConfigured,
			VoiceModel:      voiceClient.Model(),
			VoiceConfigured: voiceClient.Configured(),
			RateLimitStore:  cfg.RateLimit.Backend,
			APIPrefix:       cfg.Server.APIPrefix,
		},
		Logger: logger,
	})

	srv, err := server.New(server.Deps{
		Config:  cfg,
		Service: rt.Service,
		Limiter: rt.Limiter,
		Logger:  logger,
	})
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("create server: %w", err)
	}
	rt.Server = srv
	return rt, nil
}

// Close releases resources in reverse construction order.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// newLimiterStore selects the limiter backend. The returned close func is nil
// when the backend shares the song store.
func newLimiterStore(ctx context.Context, cfg *config.Config, st *store.Store) (ratelimit.Store, func() error, error) {
	switch cfg.RateLimit.Backend {
	case config.BackendMemory:
		return ratelimit.NewMemoryStore(), nil, nil
	case config.BackendRedis:
		client, err := ratelimit.DialRedis(ctx, cfg.RateLimit.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("rate limit redis: %w", err)
		}
		redisStore := ratelimit.NewRedisStore(client, cfg.UsageRetention())
		return redisStore, redisStore.Close, nil
	case config.BackendSQLite, "":
		return ratelimit.NewSQLiteStore(st), nil, nil
	default:
		return nil, nil, fmt.Errorf("rate limit backend %q not supported", cfg.RateLimit.Backend)
	}
}

// newWriter returns the provider-backed writer, or the mock writer when no
// provider can be called. The bool reports whether a real provider is used.
func newWriter(cfg *config.Config, logger *slog.Logger) (songwriting.Writer, bool) {
	if !cfg.LLMConfigured() {
		if cfg.LLM.Provider != config.ProviderMock {
			logging.WarnWithContext(logger, "llm api key missing; using mock writer", "llm_mock_fallback",
				logging.String("provider", cfg.LLM.Provider),
				logging.String(logging.FieldErrorHint, "set the provider API key to generate real lyrics"),
			)
		}
		return songwriting.NewMockWriter(), false
	}

	opts := []llm.Option{}
	if cfg.LLM.RequestsPerSecond > 0 {
		burst := cfg.LLM.Burst
		if burst <= 0 {
			burst = 1
		}
		opts = append(opts, llm.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.LLM.RequestsPerSecond), burst)))
	}
	client := llm.NewClient(llm.Config{
		Provider:       cfg.LLM.Provider,
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	}, opts...)
	return songwriting.NewLLMWriter(client, logger), true
}
