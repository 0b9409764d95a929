package songwriting

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"lyricsmith/internal/logging"
	"lyricsmith/internal/services"
	"lyricsmith/internal/services/llm"
)

// Writer produces lyrics, revisions, music suggestions, and chat replies.
type Writer interface {
	GenerateLyrics(ctx context.Context, params GenerateParams) (Lyrics, error)
	ReviseLyrics(ctx context.Context, params ReviseParams) (Revision, error)
	SuggestMusic(ctx context.Context, params MusicParams) (RawSuggestions, error)
	Chat(ctx context.Context, params ChatParams) (string, error)
}

// Completer is the subset of llm.Client a Writer needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error)
}

const (
	generateTemperature = 0.8
	generateMaxTokens   = 2000
	reviseTemperature   = 0.7
	reviseMaxTokens     = 1000
	suggestTemperature  = 0.6
	suggestMaxTokens    = 1500
	chatTemperature     = 0.8
	chatMaxTokens       = 500

	// DefaultChatReply is returned when the provider answers with nothing.
	DefaultChatReply = "I could not generate a response."
	defaultChange    = "Revision completed"
)

// generatedSections are the keys kept from a generation reply.
var generatedSections = []string{SectionVerse1, SectionVerse2, SectionChorus, SectionPreChorus, SectionBridge, SectionHook}

// LLMWriter renders prompts for a Completer and validates its replies.
type LLMWriter struct {
	client Completer
	logger *slog.Logger
}

// NewLLMWriter builds a writer over client.
func NewLLMWriter(client Completer, logger *slog.Logger) *LLMWriter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LLMWriter{client: client, logger: logging.NewComponentLogger(logger, "songwriter")}
}

// GenerateLyrics asks the provider for a new song.
func (w *LLMWriter) GenerateLyrics(ctx context.Context, params GenerateParams) (Lyrics, error) {
	content, err := w.client.CompleteJSON(ctx, GeneratePrompt(params), generateUserPrompt, generateTemperature, generateMaxTokens)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := llm.DecodeLLMJSON(content, &raw); err != nil {
		return nil, services.Wrap(services.ErrValidation, "songwriter", "generate", "decode lyrics", err)
	}
	return ValidateLyrics(raw)
}

// ValidateLyrics keeps the string sections of a generation reply and
// requires verse1 or chorus.
func ValidateLyrics(raw map[string]any) (Lyrics, error) {
	lyrics := make(Lyrics, len(generatedSections))
	for _, key := range generatedSections {
		if text, ok := raw[key].(string); ok && text != "" {
			lyrics[key] = text
		}
	}
	if lyrics[SectionVerse1] == "" && lyrics[SectionChorus] == "" {
		return nil, services.Wrap(services.ErrValidation, "songwriter", "generate", "lyrics must include at least verse1 or chorus", nil)
	}
	return lyrics, nil
}

// ReviseLyrics asks the provider to rewrite one section.
func (w *LLMWriter) ReviseLyrics(ctx context.Context, params ReviseParams) (Revision, error) {
	prompt, err := RevisePrompt(params)
	if err != nil {
		return Revision{}, err
	}
	content, err := w.client.CompleteJSON(ctx, prompt, reviseUserPrompt, reviseTemperature, reviseMaxTokens)
	if err != nil {
		return Revision{}, err
	}
	var raw struct {
		RevisedSection any `json:"revisedSection"`
		Changes        any `json:"changes"`
	}
	if err := llm.DecodeLLMJSON(content, &raw); err != nil {
		return Revision{}, services.Wrap(services.ErrValidation, "songwriter", "revise", "decode revision", err)
	}
	out := Revision{Changes: []string{defaultChange}}
	if text, ok := raw.RevisedSection.(string); ok {
		out.RevisedSection = text
	}
	if list, ok := raw.Changes.([]any); ok {
		out.Changes = make([]string, 0, len(list))
		for _, item := range list {
			if text, ok := item.(string); ok {
				out.Changes = append(out.Changes, text)
			}
		}
	}
	return out, nil
}

// SuggestMusic asks the provider for arrangement ideas. Fields with the wrong
// JSON type are dropped rather than failing the whole reply.
func (w *LLMWriter) SuggestMusic(ctx context.Context, params MusicParams) (RawSuggestions, error) {
	prompt, err := MusicPrompt(params)
	if err != nil {
		return RawSuggestions{}, err
	}
	content, err := w.client.CompleteJSON(ctx, prompt, suggestUserPrompt, suggestTemperature, suggestMaxTokens)
	if err != nil {
		return RawSuggestions{}, err
	}
	var raw RawSuggestions
	if err := llm.DecodeLLMJSON(content, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return RawSuggestions{}, services.Wrap(services.ErrValidation, "songwriter", "suggest", "decode suggestions", err)
		}
		w.logger.Debug("suggestion field with unexpected type dropped",
			logging.String("field", typeErr.Field),
			logging.String("value_type", typeErr.Value),
		)
	}
	return raw, nil
}

// Chat returns a free-form assistant reply.
func (w *LLMWriter) Chat(ctx context.Context, params ChatParams) (string, error) {
	reply, err := w.client.Complete(ctx, llm.Request{
		System:      ChatPrompt(params.Context),
		Messages:    []llm.Message{{Role: "user", Content: params.Message}},
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return DefaultChatReply, nil
	}
	return reply, nil
}

var (
	_ Writer = (*LLMWriter)(nil)
	_ Writer = MockWriter{}
)
