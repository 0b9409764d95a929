// Package llm provides a chat completion client for the lyrics providers.
//
// Supported wire formats:
//   - OpenAI-compatible chat completions (OpenAI, OpenRouter)
//   - Anthropic messages
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send a system prompt plus conversation, receive text.
// Client.CompleteJSON: same, asking the provider for a JSON object.
// Client.HealthCheck: verify API key and model availability.
// DecodeLLMJSON: decode model output, tolerating code fences and prose.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, empty completions, and
// network timeouts with exponential backoff (base 1s, max 10s, up to 3
// attempts by default). Context cancellation aborts retries immediately. An
// optional token bucket paces outbound requests.
//
// # Errors
//
// Final failures carry services markers: ErrConfiguration for missing or
// rejected credentials, ErrRateLimited for provider throttling, ErrUnavailable
// and ErrTimeout for outages. Callers classify with errors.Is.
package llm
