package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	if err := c.validateRateLimit(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateVoice(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if !strings.HasPrefix(c.Server.APIPrefix, "/") {
		return errors.New("server.api_prefix must start with /")
	}
	if c.Server.ReadHeaderTimeoutSeconds < 0 || c.Server.ReadTimeoutSeconds < 0 ||
		c.Server.WriteTimeoutSeconds < 0 || c.Server.IdleTimeoutSeconds < 0 {
		return errors.New("server timeouts must be non-negative")
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return errors.New("server.shutdown_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCORS() error {
	if len(c.CORS.AllowedOrigins) == 0 {
		return errors.New("cors.allowed_origins must contain at least one origin")
	}
	return nil
}

func (c *Config) validateRateLimit() error {
	if c.RateLimit.Requests <= 0 {
		return errors.New("rate_limit.requests must be positive")
	}
	if c.RateLimit.WindowSeconds <= 0 {
		return errors.New("rate_limit.window_seconds must be positive")
	}
	switch c.RateLimit.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.RateLimit.RedisURL == "" {
			return errors.New("rate_limit.redis_url is required when rate_limit.backend is redis (or set REDIS_URL)")
		}
	default:
		return fmt.Errorf("rate_limit.backend %q is not supported (use sqlite, memory, or redis)", c.RateLimit.Backend)
	}
	return nil
}

func (c *Config) validateLLM() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter, ProviderMock:
	default:
		return fmt.Errorf("llm.provider %q is not supported (use openai, anthropic, openrouter, or mock)", c.LLM.Provider)
	}
	if c.LLM.RequestsPerSecond < 0 {
		return errors.New("llm.requests_per_second must be non-negative")
	}
	return nil
}

func (c *Config) validateVoice() error {
	if c.Voice.PreviewMaxSeconds > defaultPreviewMaxSeconds {
		return fmt.Errorf("voice.preview_max_seconds must be at most %d", defaultPreviewMaxSeconds)
	}
	if c.Voice.PreviewDefaultSeconds < 1 || c.Voice.PreviewDefaultSeconds > c.Voice.PreviewMaxSeconds {
		return fmt.Errorf("voice.preview_default_seconds must be between 1 and %d", c.Voice.PreviewMaxSeconds)
	}
	if c.Voice.PreviewRateLimitRequests <= 0 {
		return errors.New("voice.preview_rate_limit_requests must be positive")
	}
	if c.Voice.PreviewRateLimitWindowSeconds <= 0 {
		return errors.New("voice.preview_rate_limit_window_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}
