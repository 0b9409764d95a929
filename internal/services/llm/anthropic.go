package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const anthropicVersion = "2023-06-01"

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func buildAnthropicRequest(model string, req Request) anthropicRequest {
	system := req.System
	if req.JSON {
		system = strings.TrimSpace(system + "\n\nRespond with a single JSON object and no other text.")
	}
	messages := make([]anthropicMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		// The messages API takes the system prompt separately.
		if msg.Role == "system" {
			system = strings.TrimSpace(system + "\n\n" + msg.Content)
			continue
		}
		messages = append(messages, anthropicMessage{Role: msg.Role, Content: msg.Content})
	}
	return anthropicRequest{
		Model:       model,
		System:      system,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
}

func (c *Client) sendAnthropicOnce(ctx context.Context, req Request) (completion, []byte, error) {
	var result completion
	encoded, err := json.Marshal(buildAnthropicRequest(c.cfg.Model, req))
	if err != nil {
		return result, nil, fmt.Errorf("llm request: encode body: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return result, nil, fmt.Errorf("llm request: new request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	body, err := c.do(httpReq)
	if err != nil {
		return result, body, err
	}
	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return result, body, fmt.Errorf("llm request: decode response: %w", err)
	}
	if parsed.Error != nil {
		return result, body, fmt.Errorf("llm request: api error: %s: %s", parsed.Error.Type, strings.TrimSpace(parsed.Error.Message))
	}
	result.empty = len(parsed.Content) == 0
	result.finishReason = parsed.StopReason
	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	result.content = strings.TrimSpace(text.String())
	return result, body, nil
}
