package api

import (
	"context"
	"time"

	"lyricsmith/internal/logging"
	"lyricsmith/internal/services"
)

const usageStatsWindow = time.Hour

// Health reports store, provider, and usage status.
func (s *SongService) Health(ctx context.Context) (*HealthResponse, error) {
	now := s.timestamp()
	healthy := true

	database := ServiceHealth{Status: "healthy"}
	if err := s.store.Ping(ctx); err != nil {
		healthy = false
		database = ServiceHealth{Status: "unhealthy", Details: map[string]any{"healthy": false, "error": err.Error()}}
		logging.WarnWithContext(s.loggerFor(ctx), "database health check failed", "health_database",
			logging.String(logging.FieldImpact, "song persistence unavailable"),
			logging.Error(err),
		)
	}

	var stats HealthStats
	if healthy {
		counts, err := s.store.Counts(ctx)
		if err != nil {
			return nil, healthFailure(now, err)
		}
		usage, err := s.store.UsageStats(ctx, s.now().Add(-usageStatsWindow))
		if err != nil {
			return nil, healthFailure(now, err)
		}
		stats = HealthStats{
			TotalSongs:            counts.Songs,
			TotalRevisions:        counts.Revisions,
			TotalVoiceGenerations: counts.VoiceGenerations,
			UsageStats:            usage,
		}
		database.Details = map[string]any{"healthy": true, "stats": stats}
	}
	if stats.UsageStats == nil {
		stats.UsageStats = map[string]int{}
	}

	llmStatus := "configured"
	if !s.provider.LLMConfigured {
		llmStatus = "misconfigured"
		healthy = false
	}
	voiceStatus := "configured"
	if !s.voiceConfigured() {
		voiceStatus = "disabled"
	}

	status := "healthy"
	if !healthy {
		status = "degraded"
	}

	prefix := s.provider.APIPrefix
	return &HealthResponse{
		Status:    status,
		Timestamp: now,
		Version:   Version,
		Services: map[string]ServiceHealth{
			"database": database,
			"llm": {Status: llmStatus, Details: map[string]any{
				"provider": s.provider.LLMProvider,
				"model":    s.provider.LLMModel,
			}},
			"voice": {Status: voiceStatus, Details: map[string]any{"model": s.provider.VoiceModel}},
			"environment": {Status: "ok", Details: map[string]any{
				"rateLimitStore": s.provider.RateLimitStore,
			}},
		},
		Stats: stats,
		Endpoints: map[string]string{
			"generateSong": prefix + "/generate-song",
			"revise":       prefix + "/revise",
			"suggestMusic": prefix + "/suggest-music",
		},
	}, nil
}

func healthFailure(timestamp string, err error) *services.Error {
	return services.NewError(services.KindUpstreamUnavailable, CodeHealthCheckError, "Health check failed").
		WithDetails(map[string]any{"timestamp": timestamp, "error": err.Error()}).
		WithCause(err)
}
