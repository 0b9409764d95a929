package testsupport

import (
	"path/filepath"
	"testing"

	"lyricsmith/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The LLM runs in mock mode, voice synthesis is disabled, and the limiter
// keeps its log in memory unless options say otherwise.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.DatabasePath = filepath.Join(base, "data", "lyricsmith.db")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.CORS.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	cfgVal.RateLimit.Backend = config.BackendMemory
	cfgVal.LLM.Provider = config.ProviderMock
	cfgVal.LLM.APIKey = ""
	cfgVal.Voice.Enabled = false
	cfgVal.Voice.APIKey = ""
	cfgVal.Logging.Format = "json"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRateLimit overrides the general limiter policy.
func WithRateLimit(requests, windowSeconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.RateLimit.Requests = requests
		b.cfg.RateLimit.WindowSeconds = windowSeconds
	}
}

// WithPreviewLimit overrides the voice preview limiter policy.
func WithPreviewLimit(requests, windowSeconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Voice.PreviewRateLimitRequests = requests
		b.cfg.Voice.PreviewRateLimitWindowSeconds = windowSeconds
	}
}

// WithBackend selects the limiter storage backend.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.RateLimit.Backend = backend
	}
}

// WithAllowedOrigins replaces the CORS origin list.
func WithAllowedOrigins(origins ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.CORS.AllowedOrigins = origins
	}
}

// WithLLM points the config at a real provider endpoint, typically an
// httptest server.
func WithLLM(provider, apiKey, baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.Provider = provider
		b.cfg.LLM.APIKey = apiKey
		b.cfg.LLM.BaseURL = baseURL
	}
}

// WithVoice enables speech synthesis against baseURL.
func WithVoice(apiKey, baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Voice.Enabled = true
		b.cfg.Voice.APIKey = apiKey
		b.cfg.Voice.BaseURL = baseURL
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
