package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"lyricsmith/internal/services"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	defaultMaxTokens   = 1024

	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"

	defaultChatURL      = "https://api.openai.com/v1/chat/completions"
	defaultAnthropicURL = "https://api.anthropic.com/v1/messages"
)

// Config captures the runtime settings required to talk to the LLM.
type Config struct {
	Provider       string
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// Message is one conversation turn.
type Message struct {
	Role    string
	Content string
}

// Request describes a single completion.
type Request struct {
	System      string
	Messages    []Message
	Temperature float64
	MaxTokens   int
	JSON        bool
}

// Client wraps the provider completion APIs.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter

	retry retryPolicy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default retry count (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retry.attempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retry.base = baseDelay
		c.retry.max = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.retry.sleeper = sleeper
	}
}

// WithRateLimiter paces every outbound attempt through limiter.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// NewClient constructs an LLM client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			Provider:       strings.ToLower(strings.TrimSpace(cfg.Provider)),
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			Referer:        strings.TrimSpace(cfg.Referer),
			Title:          strings.TrimSpace(cfg.Title),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
		retry:      defaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.Provider == "" {
		client.cfg.Provider = ProviderOpenAI
	}
	if client.cfg.BaseURL == "" {
		if client.cfg.Provider == ProviderAnthropic {
			client.cfg.BaseURL = defaultAnthropicURL
		} else {
			client.cfg.BaseURL = defaultChatURL
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Provider returns the normalized provider name.
func (c *Client) Provider() string { return c.cfg.Provider }

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.cfg.Model }

// Complete issues a completion request and returns the model text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	const op = "llm complete"
	req.System = strings.TrimSpace(req.System)
	if len(req.Messages) == 0 {
		return "", services.Wrap(services.ErrValidation, "llm", op, "at least one message required", nil)
	}
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrConfiguration, "llm", op, "api key required", nil)
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}
	return c.completionContentWithRetry(ctx, req, op)
}

// CompleteJSON issues a JSON-only completion with the supplied prompts.
// It returns the raw JSON payload produced by the model.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	if systemPrompt == "" {
		return "", errors.New("llm complete: system prompt required")
	}
	if userPrompt == "" {
		return "", errors.New("llm complete: user prompt required")
	}
	return c.Complete(ctx, Request{
		System:      systemPrompt,
		Messages:    []Message{{Role: "user", Content: userPrompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		JSON:        true,
	})
}

// HealthCheck issues a fast ping to verify the API key and model are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	content, err := c.CompleteJSON(ctx, "You must respond with JSON only.", `Respond with {"ok":true}`, 0, 16)
	if err != nil {
		return err
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return fmt.Errorf("llm health: parse payload: %w", err)
	}
	if !parsed.OK {
		return errors.New("llm health: unexpected response")
	}
	return nil
}

// completion is the provider-neutral result of one request.
type completion struct {
	content      string
	finishReason string
	refusal      string
	empty        bool
}

func (c *Client) sendOnce(ctx context.Context, req Request) (completion, []byte, error) {
	if c.cfg.Provider == ProviderAnthropic {
		return c.sendAnthropicOnce(ctx, req)
	}
	return c.sendChatRequestOnce(ctx, req)
}

func (c *Client) completionContentWithRetry(ctx context.Context, req Request, op string) (string, error) {
	attempts := c.retry.maxAttempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", markError(op, fmt.Errorf("%s: pacing: %w", op, err))
			}
		}
		result, body, err := c.sendOnce(ctx, req)
		if err == nil {
			if result.content != "" {
				return result.content, nil
			}
			err = emptyResultError(op, result, body)
		}

		delay, retry := c.retry.next(ctx, err, attempt)
		if !retry {
			return "", markError(op, err)
		}
		if err := c.retry.wait(ctx, delay); err != nil {
			return "", markError(op, err)
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return "", markError(op, fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, lastErr))
}

func emptyResultError(op string, result completion, body []byte) error {
	if result.empty {
		return fmt.Errorf("%s: empty choices", op)
	}
	return &emptyContentError{
		Op:           op,
		FinishReason: result.finishReason,
		Refusal:      result.refusal,
		Snippet:      summarizePayloadSnippet(string(body)),
	}
}

func (c *Client) timeoutDuration() time.Duration {
	if c == nil || c.httpClient == nil || c.httpClient.Timeout <= 0 {
		return defaultHTTPTimeout
	}
	return c.httpClient.Timeout
}
