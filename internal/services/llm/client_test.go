package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lyricsmith/internal/services"
)

func chatReply(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{
				"finish_reason": "stop",
				"message":       map[string]any{"content": content},
			},
		},
	}
}

func TestClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		if err := json.NewEncoder(w).Encode(chatReply(`{"ok":true}`)); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatReply("```json\n{\"ok\":true}\n```"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientUnauthorizedIsConfigurationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	err := client.HealthCheck(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
}

func TestClientMissingKeyIsConfigurationError(t *testing.T) {
	client := NewClient(Config{Model: "demo"})
	_, err := client.Complete(context.Background(), Request{Messages: []Message{{Role: "user", Content: "hi"}}})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
}

func TestClientSendsSamplingParameters(t *testing.T) {
	var received chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(chatReply("Hello there"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "gpt-4o-mini"})
	reply, err := client.Complete(context.Background(), Request{
		System:      "You are a songwriting assistant.",
		Messages:    []Message{{Role: "user", Content: "Help me rhyme orange"}},
		Temperature: 0.8,
		MaxTokens:   500,
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if reply != "Hello there" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if received.Model != "gpt-4o-mini" || received.Temperature != 0.8 || received.MaxTokens != 500 {
		t.Fatalf("unexpected request %+v", received)
	}
	if len(received.Messages) != 2 || received.Messages[0].Role != "system" {
		t.Fatalf("expected system message first, got %+v", received.Messages)
	}
	if received.ResponseFormat != nil {
		t.Fatalf("expected no response format for plain completion, got %v", received.ResponseFormat)
	}
}

func TestClientToolCallArguments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"finish_reason": "tool_calls",
					"message": map[string]any{
						"content": "",
						"tool_calls": []any{
							map[string]any{
								"type":     "function",
								"id":       "call_1",
								"function": map[string]any{"name": "lyrics", "arguments": `{"chorus":"la"}`},
							},
						},
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	content, err := client.CompleteJSON(context.Background(), "system", "user", 0.7, 100)
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != `{"chorus":"la"}` {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestClientEmptyContentHasSnippet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatReply(""))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"}, WithRetryMaxAttempts(1))
	_, err := client.CompleteJSON(context.Background(), "system", "user", 0, 10)
	if err == nil {
		t.Fatal("expected empty content error")
	}
	if !strings.Contains(err.Error(), "finish_reason=\"stop\"") || !strings.Contains(err.Error(), "response_snippet=") {
		t.Fatalf("expected diagnostic detail, got %v", err)
	}
}

func TestClientRetriesOnHTTP429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limited"})
			return
		}
		_ = json.NewEncoder(w).Encode(chatReply(`{"verse1":"a"}`))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
		WithRetryMaxAttempts(5),
	)
	content, err := client.CompleteJSON(context.Background(), "system", "user", 0.8, 2000)
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != `{"verse1":"a"}` {
		t.Fatalf("unexpected content %q", content)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestClientExhaustedRateLimitIsMarked(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithRetryBackoff(0, 0),
		WithRetryMaxAttempts(2),
	)
	_, err := client.CompleteJSON(context.Background(), "system", "user", 0, 10)
	if !errors.Is(err, services.ErrRateLimited) {
		t.Fatalf("expected rate limited marker, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestClientServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"}, WithRetryMaxAttempts(1))
	_, err := client.CompleteJSON(context.Background(), "system", "user", 0, 10)
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable marker, got %v", err)
	}
}

func TestClientRetriesOnEmptyContentThenSucceeds(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		content := ""
		if calls >= 3 {
			content = `{"ok":true}`
		}
		_ = json.NewEncoder(w).Encode(chatReply(content))
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
		WithRetryMaxAttempts(5),
	)
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestAnthropicWireFormat(t *testing.T) {
	var received anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "sk-ant" {
			t.Fatalf("missing x-api-key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Fatalf("missing anthropic-version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content":     []any{map[string]any{"type": "text", "text": `{"chorus":"ok"}`}},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	client := NewClient(Config{Provider: "Anthropic", APIKey: "sk-ant", BaseURL: server.URL, Model: "claude-3-5-sonnet-20241022"})
	content, err := client.CompleteJSON(context.Background(), "You are LyricSmith.", "Generate the lyrics now.", 0.8, 2000)
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != `{"chorus":"ok"}` {
		t.Fatalf("unexpected content %q", content)
	}
	if received.MaxTokens != 2000 || received.Temperature != 0.8 {
		t.Fatalf("unexpected sampling parameters %+v", received)
	}
	if !strings.HasPrefix(received.System, "You are LyricSmith.") {
		t.Fatalf("expected system prompt at top level, got %q", received.System)
	}
	if len(received.Messages) != 1 || received.Messages[0].Role != "user" {
		t.Fatalf("unexpected messages %+v", received.Messages)
	}
}

func TestDecodeLLMJSONStripsProse(t *testing.T) {
	var parsed struct {
		Chorus string `json:"chorus"`
	}
	if err := DecodeLLMJSON("Here you go:\n{\"chorus\":\"hey\"}\nEnjoy!", &parsed); err != nil {
		t.Fatalf("DecodeLLMJSON returned error: %v", err)
	}
	if parsed.Chorus != "hey" {
		t.Fatalf("unexpected chorus %q", parsed.Chorus)
	}
	if err := DecodeLLMJSON("   ", &parsed); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
