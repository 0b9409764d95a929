package api

import (
	"context"
	"strings"

	"lyricsmith/internal/services"
	"lyricsmith/internal/songwriting"
)

// Chat answers a free-form songwriting question.
func (s *SongService) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, services.NewError(services.KindValidation, CodeMissingMessage, "Message is required")
	}
	reply, err := s.writer.Chat(ctx, songwriting.ChatParams{Message: message, Context: req.Context})
	if err != nil {
		return nil, internalError(CodeChatError, "Failed to process chat message", err)
	}
	if strings.TrimSpace(reply) == "" {
		reply = songwriting.DefaultChatReply
	}
	return &ChatResponse{Reply: reply}, nil
}
