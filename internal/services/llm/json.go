package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const snippetLimit = 160

// DecodeLLMJSON decodes model output into target. Replies wrapped in a
// ```json fence or surrounded by prose are unwrapped before a second attempt.
func DecodeLLMJSON(content string, target any) error {
	payload := strings.TrimSpace(content)
	if payload == "" {
		return errors.New("empty payload")
	}

	firstErr := json.Unmarshal([]byte(payload), target)
	if firstErr == nil {
		return nil
	}

	inner := extractJSON(payload)
	if inner == "" || inner == payload {
		return fmt.Errorf("%w (payload snippet: %s)", firstErr, summarizePayloadSnippet(payload))
	}
	if err := json.Unmarshal([]byte(inner), target); err != nil {
		return fmt.Errorf("%w (sanitized payload snippet: %s)", err, summarizePayloadSnippet(inner))
	}
	return nil
}

// extractJSON returns the outermost object, or failing that array, found in
// payload after removing a code fence.
func extractJSON(payload string) string {
	body := unfence(payload)
	if body == "" || body[0] == '{' || body[0] == '[' {
		return body
	}
	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(body, pair[0])
		end := strings.LastIndex(body, pair[1])
		if start >= 0 && end > start {
			return strings.TrimSpace(body[start : end+1])
		}
	}
	return body
}

func unfence(payload string) string {
	body, ok := strings.CutPrefix(strings.TrimSpace(payload), "```")
	if !ok {
		return strings.TrimSpace(payload)
	}
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

// summarizePayloadSnippet collapses whitespace and truncates for error text.
func summarizePayloadSnippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return "<empty>"
	}
	if runes := []rune(clean); len(runes) > snippetLimit {
		return string(runes[:snippetLimit]) + "..."
	}
	return clean
}
