package api

import (
	"errors"

	"lyricsmith/internal/services"
)

// Error codes returned by SongService.
const (
	CodeSongNotFound          = "SONG_NOT_FOUND"
	CodeSectionNotFound       = "SECTION_NOT_FOUND"
	CodeInvalidInstruction    = "INVALID_REVISION_INSTRUCTION"
	CodeMissingSongID         = "MISSING_SONG_ID"
	CodeMissingLyrics         = "MISSING_LYRICS"
	CodeMissingMessage        = "MISSING_MESSAGE"
	CodeAIServiceError        = "AI_SERVICE_ERROR"
	CodeAIRateLimit           = "AI_RATE_LIMIT"
	CodeAIServiceUnavailable  = "AI_SERVICE_UNAVAILABLE"
	CodeGenerationError       = "GENERATION_ERROR"
	CodeRevisionError         = "REVISION_ERROR"
	CodeFetchRevisionsError   = "FETCH_REVISIONS_ERROR"
	CodeSuggestionError       = "SUGGESTION_ERROR"
	CodeChatError             = "CHAT_ERROR"
	CodeVoiceUnavailable      = "VOICE_SERVICE_UNAVAILABLE"
	CodeVoiceGenerationError  = "VOICE_GENERATION_ERROR"
	CodeVoicePreviewError     = "VOICE_PREVIEW_ERROR"
	CodeVoicePreviewRateLimit = "VOICE_PREVIEW_RATE_LIMIT"
	CodeRateLimitUnavailable  = "RATE_LIMIT_UNAVAILABLE"
	CodeHealthCheckError      = "HEALTH_CHECK_ERROR"
	CodeSongFetchError        = "SONG_FETCH_ERROR"
)

// classifyUpstream turns a writer failure into a client-facing error. Marked
// provider failures get the shared AI_* codes; everything else becomes an
// internal error with the operation's own code and message.
func classifyUpstream(err error, code, message string) *services.Error {
	if existing, ok := services.AsError(err); ok {
		return existing
	}
	switch services.Classify(err) {
	case services.KindUpstreamMisconfig:
		return services.NewError(services.KindUpstreamMisconfig, CodeAIServiceError, "AI service configuration error").WithCause(err)
	case services.KindUpstreamRateLimited:
		return services.NewError(services.KindUpstreamRateLimited, CodeAIRateLimit, "AI service rate limit exceeded").WithCause(err)
	case services.KindUpstreamUnavailable:
		return services.NewError(services.KindUpstreamUnavailable, CodeAIServiceUnavailable, "AI service temporarily unavailable").WithCause(err)
	default:
		return internalError(code, message, err)
	}
}

// classifyVoice maps a synthesis failure. Only a missing configuration is
// reported as unavailable; other failures are internal.
func classifyVoice(err error, code, message string) *services.Error {
	if errors.Is(err, services.ErrConfiguration) {
		return services.NewError(services.KindUpstreamUnavailable, CodeVoiceUnavailable, "Voice generation not configured").WithCause(err)
	}
	return internalError(code, message, err)
}

var errMissingCoreSection = errors.New("lyrics missing verse1 and chorus")

func internalError(code, message string, err error) *services.Error {
	return services.NewError(services.KindInternal, code, message).WithCause(err)
}
