package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeCORS()
	if err := c.normalizeRateLimit(); err != nil {
		return err
	}
	c.normalizeLLM()
	if err := c.normalizeVoice(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if value, ok := lookupEnv("DATABASE_URL"); ok {
		c.Paths.DatabasePath = strings.TrimPrefix(value, "file:")
	}
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		c.Paths.DatabasePath = filepath.Join(c.Paths.DataDir, defaultDatabaseFile)
	}
	if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	prefix := strings.TrimSpace(c.Server.APIPrefix)
	if prefix == "" {
		prefix = defaultAPIPrefix
	}
	c.Server.APIPrefix = strings.TrimRight(prefix, "/")
}

func (c *Config) normalizeCORS() {
	if value, ok := lookupEnv("CORS_ORIGIN"); ok {
		c.CORS.AllowedOrigins = strings.Split(value, ",")
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = strings.Split(defaultCORSOrigins, ",")
	}
	origins := make([]string, 0, len(c.CORS.AllowedOrigins))
	for _, origin := range c.CORS.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	c.CORS.AllowedOrigins = origins
}

func (c *Config) normalizeRateLimit() error {
	if err := envInt("RATE_LIMIT_REQUESTS", &c.RateLimit.Requests); err != nil {
		return err
	}
	if err := envInt("RATE_LIMIT_WINDOW", &c.RateLimit.WindowSeconds); err != nil {
		return err
	}
	c.RateLimit.Backend = strings.ToLower(strings.TrimSpace(c.RateLimit.Backend))
	if c.RateLimit.Backend == "" {
		c.RateLimit.Backend = defaultRateLimitBackend
	}
	if value, ok := lookupEnv("REDIS_URL"); ok && strings.TrimSpace(c.RateLimit.RedisURL) == "" {
		c.RateLimit.RedisURL = value
	}
	c.RateLimit.RedisURL = strings.TrimSpace(c.RateLimit.RedisURL)
	if c.RateLimit.RetentionSeconds <= 0 {
		c.RateLimit.RetentionSeconds = defaultRateLimitRetention
	}
	if c.RateLimit.CleanupIntervalSeconds <= 0 {
		c.RateLimit.CleanupIntervalSeconds = defaultRateLimitCleanup
	}
	return nil
}

func (c *Config) normalizeLLM() {
	if value, ok := lookupEnv("LLM_PROVIDER"); ok {
		c.LLM.Provider = value
	}
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = defaultLLMProvider
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := lookupEnv(providerKeyEnv(c.LLM.Provider)); ok {
			c.LLM.APIKey = value
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	baseURL, model := providerDefaults(c.LLM.Provider)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = baseURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = model
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.Burst <= 0 {
		c.LLM.Burst = defaultLLMBurst
	}
}

func providerKeyEnv(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

func providerDefaults(provider string) (string, string) {
	switch provider {
	case ProviderAnthropic:
		return defaultAnthropicBaseURL, defaultAnthropicModel
	case ProviderOpenRouter:
		return defaultOpenRouterBaseURL, defaultOpenRouterModel
	default:
		return defaultOpenAIBaseURL, defaultOpenAIModel
	}
}

func (c *Config) normalizeVoice() error {
	if value, ok := lookupEnv("OPENAI_TTS_ENABLED"); ok {
		c.Voice.Enabled = !strings.EqualFold(value, "false")
	}
	// "openai" names the provider rather than a model and is ignored.
	if value, ok := lookupEnv("DEFAULT_VOICE_MODEL"); ok && !strings.EqualFold(value, "openai") {
		c.Voice.Model = value
	}
	if err := envInt("VOICE_PREVIEW_DURATION", &c.Voice.PreviewDefaultSeconds); err != nil {
		return err
	}
	c.Voice.APIKey = strings.TrimSpace(c.Voice.APIKey)
	if c.Voice.APIKey == "" {
		if value, ok := lookupEnv("OPENAI_API_KEY"); ok {
			c.Voice.APIKey = value
		}
	}
	c.Voice.BaseURL = strings.TrimSpace(c.Voice.BaseURL)
	if c.Voice.BaseURL == "" {
		c.Voice.BaseURL = defaultVoiceBaseURL
	}
	c.Voice.Model = strings.TrimSpace(c.Voice.Model)
	if c.Voice.Model == "" {
		c.Voice.Model = defaultVoiceModel
	}
	if c.Voice.TimeoutSeconds <= 0 {
		c.Voice.TimeoutSeconds = defaultVoiceTimeoutSeconds
	}
	if c.Voice.PreviewMaxSeconds <= 0 {
		c.Voice.PreviewMaxSeconds = defaultPreviewMaxSeconds
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func envInt(key string, target *int) error {
	value, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer: %w", key, err)
	}
	*target = parsed
	return nil
}
