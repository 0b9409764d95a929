package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"lyricsmith/internal/config"
)

var configEnvKeys = []string{
	"LLM_PROVIDER", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	"RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW", "CORS_ORIGIN", "DATABASE_URL",
	"REDIS_URL", "OPENAI_TTS_ENABLED", "DEFAULT_VOICE_MODEL", "VOICE_PREVIEW_DURATION",
}

func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	return home
}

func TestLoadDefaultsExpandPaths(t *testing.T) {
	home := isolateEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(home, ".local", "share", "lyricsmith")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.DatabasePath != filepath.Join(wantData, "lyricsmith.db") {
		t.Fatalf("unexpected database path: %q", cfg.Paths.DatabasePath)
	}
	if cfg.Server.Bind != "127.0.0.1:3000" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Server.APIPrefix != "/api" {
		t.Fatalf("unexpected api prefix: %q", cfg.Server.APIPrefix)
	}
	if got := strings.Join(cfg.CORS.AllowedOrigins, ","); got != "http://localhost:3000,http://localhost:5173" {
		t.Fatalf("unexpected origins: %q", got)
	}
	if cfg.RateLimit.Requests != 10 || cfg.RateLimit.WindowSeconds != 60 {
		t.Fatalf("unexpected rate limit: %+v", cfg.RateLimit)
	}
	if !cfg.RateLimit.FailOpen {
		t.Fatal("expected fail-open limiter by default")
	}
	if cfg.RateLimit.Backend != config.BackendSQLite {
		t.Fatalf("unexpected backend: %q", cfg.RateLimit.Backend)
	}
	if cfg.LLM.Provider != config.ProviderOpenAI || cfg.LLM.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.LLMConfigured() {
		t.Fatal("expected llm to be unconfigured without a key")
	}
	if !cfg.Voice.Enabled || cfg.VoiceConfigured() {
		t.Fatalf("expected voice enabled but unconfigured: %+v", cfg.Voice)
	}
	if cfg.Voice.PreviewDefaultSeconds != 10 || cfg.Voice.PreviewMaxSeconds != 15 {
		t.Fatalf("unexpected preview budget: %+v", cfg.Voice)
	}
	if cfg.Voice.PreviewRateLimitRequests != 5 {
		t.Fatalf("unexpected preview limit: %d", cfg.Voice.PreviewRateLimitRequests)
	}
	if cfg.LockPath() != cfg.Paths.DatabasePath+".lock" {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	isolateEnv(t)
	dbDir := t.TempDir()
	t.Setenv("LLM_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("RATE_LIMIT_REQUESTS", "25")
	t.Setenv("RATE_LIMIT_WINDOW", "30")
	t.Setenv("CORS_ORIGIN", " https://app.example.com , https://admin.example.com")
	t.Setenv("DATABASE_URL", "file:"+filepath.Join(dbDir, "songs.db"))
	t.Setenv("OPENAI_TTS_ENABLED", "false")
	t.Setenv("DEFAULT_VOICE_MODEL", "tts-1")
	t.Setenv("VOICE_PREVIEW_DURATION", "8")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.Provider != config.ProviderAnthropic {
		t.Fatalf("unexpected provider: %q", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "sk-ant" {
		t.Fatalf("expected anthropic key, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "claude-3-5-sonnet-20241022" {
		t.Fatalf("unexpected model: %q", cfg.LLM.Model)
	}
	if cfg.RateLimit.Requests != 25 || cfg.RateLimit.WindowSeconds != 30 {
		t.Fatalf("unexpected rate limit: %+v", cfg.RateLimit)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[0] != "https://app.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Paths.DatabasePath != filepath.Join(dbDir, "songs.db") {
		t.Fatalf("unexpected database path: %q", cfg.Paths.DatabasePath)
	}
	if cfg.Voice.Enabled {
		t.Fatal("expected voice disabled by OPENAI_TTS_ENABLED=false")
	}
	if cfg.Voice.Model != "tts-1" || cfg.Voice.PreviewDefaultSeconds != 8 {
		t.Fatalf("unexpected voice settings: %+v", cfg.Voice)
	}
	if cfg.Voice.APIKey != "sk-openai" {
		t.Fatalf("expected voice key from OPENAI_API_KEY, got %q", cfg.Voice.APIKey)
	}
}

func TestLoadRejectsNonNumericRateLimit(t *testing.T) {
	isolateEnv(t)
	t.Setenv("RATE_LIMIT_REQUESTS", "lots")

	if _, _, _, err := config.Load(""); err == nil || !strings.Contains(err.Error(), "RATE_LIMIT_REQUESTS") {
		t.Fatalf("expected RATE_LIMIT_REQUESTS error, got %v", err)
	}
}

func TestLoadReadsDotEnvWithoutOverridingEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OPENAI_API_KEY", "from-env")
	dotenv := "OPENAI_API_KEY=from-file\nRATE_LIMIT_REQUESTS=42\n"
	if err := os.WriteFile(".env", []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "from-env" {
		t.Fatalf("expected real environment to win, got %q", cfg.LLM.APIKey)
	}
	if cfg.RateLimit.Requests != 42 {
		t.Fatalf("expected .env rate limit, got %d", cfg.RateLimit.Requests)
	}
}

func TestLoadFromFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := config.Default()
	cfg.RateLimit.Backend = config.BackendMemory
	cfg.RateLimit.Requests = 3
	cfg.LLM.Provider = config.ProviderMock
	cfg.Server.APIPrefix = "/v1/"
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	loaded, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected file to be found at %q, got %q exists=%v", path, resolved, exists)
	}
	if loaded.RateLimit.Backend != config.BackendMemory || loaded.RateLimit.Requests != 3 {
		t.Fatalf("unexpected rate limit: %+v", loaded.RateLimit)
	}
	if loaded.Server.APIPrefix != "/v1" {
		t.Fatalf("expected trailing slash trimmed, got %q", loaded.Server.APIPrefix)
	}
	if err := loaded.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if _, err := os.Stat(loaded.Paths.LogDir); err != nil {
		t.Fatalf("expected log dir: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"requests", func(c *config.Config) { c.RateLimit.Requests = 0 }, "rate_limit.requests"},
		{"window", func(c *config.Config) { c.RateLimit.WindowSeconds = -1 }, "rate_limit.window_seconds"},
		{"backend", func(c *config.Config) { c.RateLimit.Backend = "etcd" }, "rate_limit.backend"},
		{"redis url", func(c *config.Config) { c.RateLimit.Backend = config.BackendRedis }, "rate_limit.redis_url"},
		{"provider", func(c *config.Config) { c.LLM.Provider = "cohere" }, "llm.provider"},
		{"preview max", func(c *config.Config) { c.Voice.PreviewMaxSeconds = 30 }, "voice.preview_max_seconds"},
		{"preview default", func(c *config.Config) { c.Voice.PreviewDefaultSeconds = 0 }, "voice.preview_default_seconds"},
		{"origins", func(c *config.Config) { c.CORS.AllowedOrigins = nil }, "cors.allowed_origins"},
		{"prefix", func(c *config.Config) { c.Server.APIPrefix = "api" }, "server.api_prefix"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.RateLimit.Requests != 10 {
		t.Fatalf("unexpected sample rate limit: %d", cfg.RateLimit.Requests)
	}
}
