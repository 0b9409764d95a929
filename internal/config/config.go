package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// LLM provider identifiers.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Rate limit storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Paths contains directory configuration.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	LogDir       string `toml:"log_dir"`
	DatabasePath string `toml:"database_path"`
}

// Server contains HTTP listener configuration.
type Server struct {
	Bind                     string `toml:"bind"`
	APIPrefix                string `toml:"api_prefix"`
	MetricsEnabled           bool   `toml:"metrics_enabled"`
	ReadHeaderTimeoutSeconds int    `toml:"read_header_timeout_seconds"`
	ReadTimeoutSeconds       int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds      int    `toml:"write_timeout_seconds"`
	IdleTimeoutSeconds       int    `toml:"idle_timeout_seconds"`
	ShutdownTimeoutSeconds   int    `toml:"shutdown_timeout_seconds"`
}

// CORS contains the allowed browser origins. The first entry is the fallback
// origin echoed to clients that did not declare an allowed one.
type CORS struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// RateLimit contains the general API limiter policy and its storage.
type RateLimit struct {
	Requests               int    `toml:"requests"`
	WindowSeconds          int    `toml:"window_seconds"`
	FailOpen               bool   `toml:"fail_open"`
	Backend                string `toml:"backend"`
	RedisURL               string `toml:"redis_url"`
	RetentionSeconds       int    `toml:"retention_seconds"`
	CleanupIntervalSeconds int    `toml:"cleanup_interval_seconds"`
}

// LLM contains the lyrics provider connection settings.
type LLM struct {
	Provider          string  `toml:"provider"`
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	Model             string  `toml:"model"`
	Referer           string  `toml:"referer"`
	Title             string  `toml:"title"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Voice contains speech synthesis and preview settings.
type Voice struct {
	Enabled                       bool   `toml:"enabled"`
	APIKey                        string `toml:"api_key"`
	BaseURL                       string `toml:"base_url"`
	Model                         string `toml:"model"`
	TimeoutSeconds                int    `toml:"timeout_seconds"`
	PreviewDefaultSeconds         int    `toml:"preview_default_seconds"`
	PreviewMaxSeconds             int    `toml:"preview_max_seconds"`
	PreviewRateLimitRequests      int    `toml:"preview_rate_limit_requests"`
	PreviewRateLimitWindowSeconds int    `toml:"preview_rate_limit_window_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for LyricSmith.
//
// Configuration sections by subsystem:
//   - Paths: data, log, and database locations
//   - Server: listener address, API prefix, and timeouts
//   - CORS: allowed browser origins
//   - RateLimit: general limiter policy and storage backend
//   - LLM: lyrics provider selection and credentials
//   - Voice: speech synthesis and preview budget
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Server    Server    `toml:"server"`
	CORS      CORS      `toml:"cors"`
	RateLimit RateLimit `toml:"rate_limit"`
	LLM       LLM       `toml:"llm"`
	Voice     Voice     `toml:"voice"`
	Logging   Logging   `toml:"logging"`
}

const (
	userConfigPath    = "~/.config/lyricsmith/config.toml"
	projectConfigName = "lyricsmith.toml"
)

var dotEnvFiles = []string{".env.local", ".env"}

// DefaultConfigPath returns where `config init` writes when no path is given.
func DefaultConfigPath() (string, error) {
	return expandPath(userConfigPath)
}

// Load reads the configuration at path, or searches the user config dir and
// then ./lyricsmith.toml when path is empty. Variables from .env.local and
// .env are exported first without overriding the process environment. It
// returns the parsed config, the path consulted, and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	for _, name := range dotEnvFiles {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, "", false, fmt.Errorf("load %s: %w", name, err)
		}
	}

	source, found, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if found {
		raw, err := os.ReadFile(source)
		if err != nil {
			return nil, "", false, fmt.Errorf("read %s: %w", source, err)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse %s: %w", source, err)
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, source, found, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, source, found, err
	}
	return &cfg, source, found, nil
}

// locate resolves the file Load should read. An explicit path is returned
// even when missing so callers can report where defaults came from.
func locate(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		ok, err := isRegularFile(expanded)
		return expanded, ok, err
	}

	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := expandPath(projectConfigName)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		ok, err := isRegularFile(candidate)
		if err != nil {
			return "", false, err
		}
		if ok {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func isRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return !info.IsDir(), nil
}

// EnsureDirectories creates the data, log, and database directories.
func (c *Config) EnsureDirectories() error {
	seen := make(map[string]struct{}, 3)
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, filepath.Dir(c.Paths.DatabasePath)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if _, dup := seen[dir]; dup {
			continue
		}
		seen[dir] = struct{}{}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the single-instance lock file guarding the database.
func (c *Config) LockPath() string {
	return c.Paths.DatabasePath + ".lock"
}

// RateLimitWindow returns the general limiter window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

// PreviewRateLimitWindow returns the voice preview limiter window.
func (c *Config) PreviewRateLimitWindow() time.Duration {
	return time.Duration(c.Voice.PreviewRateLimitWindowSeconds) * time.Second
}

// UsageRetention returns how long usage records are kept before purging.
func (c *Config) UsageRetention() time.Duration {
	return time.Duration(c.RateLimit.RetentionSeconds) * time.Second
}

// CleanupInterval returns the period between usage purges.
func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.RateLimit.CleanupIntervalSeconds) * time.Second
}

// LLMConfigured reports whether a real provider can be called.
func (c *Config) LLMConfigured() bool {
	return c.LLM.Provider != ProviderMock && strings.TrimSpace(c.LLM.APIKey) != ""
}

// VoiceConfigured reports whether speech synthesis can be called.
func (c *Config) VoiceConfigured() bool {
	return c.Voice.Enabled && strings.TrimSpace(c.Voice.APIKey) != ""
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
// The empty string is returned unchanged.
func ExpandPath(value string) (string, error) {
	return expandPath(value)
}

func expandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if rest, ok := strings.CutPrefix(value, "~"); ok && (rest == "" || rest[0] == '/' || rest[0] == '\\') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home directory: %w", err)
		}
		value = filepath.Join(home, strings.TrimLeft(rest, `/\`))
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("absolute path for %q: %w", value, err)
	}
	return abs, nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
