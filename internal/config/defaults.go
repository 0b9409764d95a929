package config

const (
	defaultDataDir                  = "~/.local/share/lyricsmith"
	defaultLogDir                   = "~/.local/share/lyricsmith/logs"
	defaultDatabaseFile             = "lyricsmith.db"
	defaultBind                     = "127.0.0.1:3000"
	defaultAPIPrefix                = "/api"
	defaultMetricsEnabled           = true
	defaultReadHeaderTimeoutSeconds = 5
	defaultReadTimeoutSeconds       = 15
	defaultWriteTimeoutSeconds      = 90
	defaultIdleTimeoutSeconds       = 60
	defaultShutdownTimeoutSeconds   = 5
	defaultCORSOrigins              = "http://localhost:3000,http://localhost:5173"
	defaultRateLimitRequests        = 10
	defaultRateLimitWindowSeconds   = 60
	defaultRateLimitFailOpen        = true
	defaultRateLimitBackend         = BackendSQLite
	defaultRateLimitRetention       = 3600
	defaultRateLimitCleanup         = 300
	defaultLLMProvider              = ProviderOpenAI
	defaultOpenAIBaseURL            = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel              = "gpt-4o-mini"
	defaultAnthropicBaseURL         = "https://api.anthropic.com/v1/messages"
	defaultAnthropicModel           = "claude-3-5-sonnet-20241022"
	defaultOpenRouterBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultOpenRouterModel          = "openai/gpt-4o-mini"
	defaultLLMReferer               = "https://github.com/lyricsmith/lyricsmith"
	defaultLLMTitle                 = "LyricSmith"
	defaultLLMTimeoutSeconds        = 15
	defaultLLMBurst                 = 1
	defaultVoiceEnabled             = true
	defaultVoiceBaseURL             = "https://api.openai.com/v1/audio/speech"
	defaultVoiceModel               = "gpt-4o-mini-tts"
	defaultVoiceTimeoutSeconds      = 60
	defaultPreviewSeconds           = 10
	defaultPreviewMaxSeconds        = 15
	defaultPreviewRateLimitRequests = 5
	defaultPreviewRateLimitWindow   = 60
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Server: Server{
			Bind:                     defaultBind,
			APIPrefix:                defaultAPIPrefix,
			MetricsEnabled:           defaultMetricsEnabled,
			ReadHeaderTimeoutSeconds: defaultReadHeaderTimeoutSeconds,
			ReadTimeoutSeconds:       defaultReadTimeoutSeconds,
			WriteTimeoutSeconds:      defaultWriteTimeoutSeconds,
			IdleTimeoutSeconds:       defaultIdleTimeoutSeconds,
			ShutdownTimeoutSeconds:   defaultShutdownTimeoutSeconds,
		},
		RateLimit: RateLimit{
			Requests:               defaultRateLimitRequests,
			WindowSeconds:          defaultRateLimitWindowSeconds,
			FailOpen:               defaultRateLimitFailOpen,
			Backend:                defaultRateLimitBackend,
			RetentionSeconds:       defaultRateLimitRetention,
			CleanupIntervalSeconds: defaultRateLimitCleanup,
		},
		LLM: LLM{
			Provider:       defaultLLMProvider,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			Burst:          defaultLLMBurst,
		},
		Voice: Voice{
			Enabled:                       defaultVoiceEnabled,
			BaseURL:                       defaultVoiceBaseURL,
			Model:                         defaultVoiceModel,
			TimeoutSeconds:                defaultVoiceTimeoutSeconds,
			PreviewDefaultSeconds:         defaultPreviewSeconds,
			PreviewMaxSeconds:             defaultPreviewMaxSeconds,
			PreviewRateLimitRequests:      defaultPreviewRateLimitRequests,
			PreviewRateLimitWindowSeconds: defaultPreviewRateLimitWindow,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
