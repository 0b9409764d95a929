package api

import (
	"context"
	"fmt"
	"time"

	"lyricsmith/internal/logging"
	"lyricsmith/internal/ratelimit"
	"lyricsmith/internal/services"
	"lyricsmith/internal/services/tts"
	"lyricsmith/internal/store"
	"lyricsmith/internal/voice"
)

const (
	defaultAudioType = "audio/mpeg"

	// PreviewEndpoint is the limiter key of the preview budget.
	PreviewEndpoint = "preview-voice-strict"
)

// GenerateVoice renders lyrics in an artist style.
func (s *SongService) GenerateVoice(ctx context.Context, req GenerateVoiceRequest) (*VoiceAudio, error) {
	req.ApplyDefaults()
	if !s.voiceConfigured() {
		return nil, classifyVoice(tts.ErrNotConfigured, CodeVoiceGenerationError, "Failed to generate voice")
	}
	mapping, err := voice.Lookup(req.ArtistStyle)
	if err != nil {
		return nil, services.NewError(services.KindValidation, CodeVoiceGenerationError, err.Error())
	}

	audio, err := s.voice.Synthesize(ctx, tts.Speech{
		Text:         req.Lyrics,
		Voice:        mapping.Preset,
		Speed:        voice.NormalizeSpeed(*req.Tempo, mapping.Speed),
		Instructions: mapping.Emotion(req.Emotion),
	})
	if err != nil {
		return nil, classifyVoice(err, CodeVoiceGenerationError, "Failed to generate voice")
	}

	s.trackVoice(ctx, store.NewVoiceGeneration{
		SongID:      req.SongID,
		VoiceStyle:  req.ArtistStyle,
		VoicePreset: mapping.Preset,
	})

	return &VoiceAudio{
		Data:        audio.Data,
		ContentType: contentType(audio),
		Filename:    "generated-voice.mp3",
		Style:       req.ArtistStyle,
		Preset:      mapping.Preset,
	}, nil
}

// PreviewVoice renders a short, budgeted excerpt. Previews carry their own
// per-client limit that counts rejected attempts too.
func (s *SongService) PreviewVoice(ctx context.Context, req PreviewVoiceRequest) (*VoiceAudio, error) {
	if err := s.checkPreviewLimit(ctx); err != nil {
		return nil, err
	}

	var requested float64
	if req.Duration != nil {
		requested = *req.Duration
	}
	duration := voice.PreviewDuration(requested, s.preview.DefaultSeconds, s.preview.MaxSeconds)

	if !s.voiceConfigured() {
		return nil, classifyVoice(tts.ErrNotConfigured, CodeVoicePreviewError, "Failed to generate voice preview")
	}
	mapping, err := voice.Lookup(req.ArtistStyle)
	if err != nil {
		return nil, services.NewError(services.KindValidation, CodeVoicePreviewError, err.Error())
	}

	audio, err := s.voice.Synthesize(ctx, tts.Speech{
		Text:         voice.TruncatePreview(req.Lyrics, duration),
		Voice:        mapping.Preset,
		Speed:        voice.NormalizeSpeed(voice.PreviewTempo, mapping.Speed),
		Instructions: voice.PreviewEmotion,
	})
	if err != nil {
		return nil, classifyVoice(err, CodeVoicePreviewError, "Failed to generate voice preview")
	}

	s.trackVoice(ctx, store.NewVoiceGeneration{
		VoiceStyle:      req.ArtistStyle,
		VoicePreset:     mapping.Preset,
		Preview:         true,
		DurationSeconds: &duration,
	})

	return &VoiceAudio{
		Data:            audio.Data,
		ContentType:     contentType(audio),
		Filename:        "voice-preview.mp3",
		Style:           req.ArtistStyle,
		Preset:          mapping.Preset,
		Preview:         true,
		PreviewDuration: duration,
	}, nil
}

func (s *SongService) checkPreviewLimit(ctx context.Context) error {
	limiter := s.preview.Limiter
	if limiter == nil {
		return nil
	}
	client, ok := services.ClientIDFromContext(ctx)
	if !ok {
		client = "unknown"
	}
	policy := s.preview.Policy
	decision, err := limiter.Allow(ctx, policy, client, PreviewEndpoint)
	if err != nil {
		if s.preview.FailOpen {
			logging.WarnWithContext(s.loggerFor(ctx), "preview rate limit check failed; allowing request", "rate_limit_unavailable",
				logging.Endpoint(PreviewEndpoint),
				logging.String(logging.FieldImpact, "preview not rate limited"),
				logging.Error(err),
			)
			return nil
		}
		return services.NewError(services.KindUpstreamUnavailable, CodeRateLimitUnavailable, "Rate limiting temporarily unavailable").WithCause(err)
	}
	if !decision.Allowed {
		return previewLimited(policy, decision)
	}
	return nil
}

func previewLimited(policy ratelimit.Policy, decision ratelimit.Decision) *services.Error {
	return services.NewError(services.KindRateLimited, CodeVoicePreviewRateLimit, "Preview rate limit exceeded").
		WithDetails(map[string]any{
			"limit":         decision.Limit,
			"windowSeconds": int(policy.Window / time.Second),
		}).
		WithRetryAfter(decision.RetryAfter)
}

func (s *SongService) voiceConfigured() bool {
	return s.voice != nil && s.voice.Configured()
}

// trackVoice records a generation. Failures are logged and ignored.
func (s *SongService) trackVoice(ctx context.Context, in store.NewVoiceGeneration) {
	if _, err := s.store.RecordVoiceGeneration(ctx, in); err != nil {
		logging.WarnWithContext(s.loggerFor(ctx), "voice generation not tracked", "voice_tracking_failed",
			logging.SongID(in.SongID),
			logging.Bool("preview", in.Preview),
			logging.Error(err),
		)
	}
}

func contentType(audio tts.Audio) string {
	if audio.ContentType != "" {
		return audio.ContentType
	}
	return defaultAudioType
}

// PreviewDurationHeader formats the X-Preview-Duration value.
func PreviewDurationHeader(seconds float64) string {
	return fmt.Sprintf("%g", seconds)
}
