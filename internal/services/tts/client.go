package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"lyricsmith/internal/services"
)

const (
	defaultBaseURL       = "https://api.openai.com/v1/audio/speech"
	defaultModel         = "gpt-4o-mini-tts"
	defaultHTTPTimeout   = 60 * time.Second
	defaultRetryAttempts = 3
	defaultRetryStep     = 400 * time.Millisecond
	maxErrorBody         = 512
)

// ErrNotConfigured reports that synthesis is disabled or has no credential.
var ErrNotConfigured = services.Wrap(services.ErrConfiguration, "tts", "synthesize",
	"voice generation not configured (set OPENAI_API_KEY and OPENAI_TTS_ENABLED)", nil)

// Config captures the speech endpoint settings.
type Config struct {
	Enabled        bool
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Speech describes one synthesis request.
type Speech struct {
	Text         string
	Voice        string
	Speed        float64
	Instructions string
}

// Audio is the synthesized result.
type Audio struct {
	Data        []byte
	ContentType string
	Format      string
}

// Client calls the speech endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	attempts   int
	retryStep  time.Duration
	sleeper    func(time.Duration)
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

// WithRetry overrides the attempt count and the linear backoff step.
func WithRetry(attempts int, step time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.retryStep = step
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a speech client.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		attempts:   defaultRetryAttempts,
		retryStep:  defaultRetryStep,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.attempts <= 0 {
		client.attempts = 1
	}
	return client
}

// Configured reports whether Synthesize can reach the provider.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.Enabled && c.cfg.APIKey != ""
}

// Model returns the synthesis model identifier.
func (c *Client) Model() string { return c.cfg.Model }

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed,omitempty"`
	Instructions   string  `json:"instructions,omitempty"`
	ResponseFormat string  `json:"response_format"`
}

type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("tts request: http %d: %s", e.StatusCode, e.Body)
}

// Synthesize renders speech as MP3.
func (c *Client) Synthesize(ctx context.Context, speech Speech) (Audio, error) {
	if !c.Configured() {
		return Audio{}, ErrNotConfigured
	}
	if strings.TrimSpace(speech.Text) == "" {
		return Audio{}, services.Wrap(services.ErrValidation, "tts", "synthesize", "text required", nil)
	}
	payload, err := json.Marshal(speechRequest{
		Model:          c.cfg.Model,
		Input:          speech.Text,
		Voice:          speech.Voice,
		Speed:          speech.Speed,
		Instructions:   speech.Instructions,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return Audio{}, fmt.Errorf("tts request: encode body: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		data, err := c.sendOnce(ctx, payload)
		if err == nil {
			return Audio{Data: data, ContentType: "audio/mpeg", Format: "mp3"}, nil
		}
		lastErr = err
		if attempt == c.attempts || ctx.Err() != nil || !retryable(err) {
			break
		}
		if err := c.sleep(ctx, c.retryStep*time.Duration(attempt)); err != nil {
			lastErr = err
			break
		}
	}
	return Audio{}, markError(lastErr)
}

func (c *Client) sendOnce(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("tts request: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &statusError{StatusCode: resp.StatusCode, Body: snippet}
	}
	if len(body) == 0 {
		return nil, errors.New("tts request: empty audio")
	}
	return body, nil
}

func retryable(err error) bool {
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusRequestTimeout ||
			statusErr.StatusCode == http.StatusTooManyRequests ||
			statusErr.StatusCode >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled)
}

func markError(err error) error {
	if err == nil {
		return nil
	}
	var marker error
	var statusErr *statusError
	var netErr net.Error
	switch {
	case errors.As(err, &statusErr):
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized, statusErr.StatusCode == http.StatusForbidden:
			marker = services.ErrConfiguration
		case statusErr.StatusCode == http.StatusTooManyRequests:
			marker = services.ErrRateLimited
		case statusErr.StatusCode >= http.StatusInternalServerError:
			marker = services.ErrUnavailable
		}
	case errors.Is(err, context.DeadlineExceeded):
		marker = services.ErrTimeout
	case errors.As(err, &netErr):
		marker = services.ErrUnavailable
	}
	if marker == nil {
		return err
	}
	return services.Wrap(marker, "tts", "synthesize", "", err)
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
