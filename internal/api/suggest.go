package api

import (
	"context"
	"strings"

	"lyricsmith/internal/logging"
	"lyricsmith/internal/services"
	"lyricsmith/internal/songwriting"
)

// SuggestMusic proposes tempo, key, chords, instrumentation, and production
// notes for a set of lyrics.
func (s *SongService) SuggestMusic(ctx context.Context, req SuggestMusicRequest) (*SuggestMusicResponse, error) {
	if len(req.Lyrics.Sections()) == 0 {
		return nil, services.NewError(services.KindValidation, CodeMissingLyrics, "Lyrics are required for music suggestions")
	}

	var prefs songwriting.Preferences
	if req.Preferences != nil {
		prefs = songwriting.Preferences{
			Tempo:       req.Preferences.Tempo,
			Complexity:  req.Preferences.Complexity,
			Instruments: req.Preferences.Instruments,
		}
	}
	prefs = prefs.WithDefaults()

	raw, err := s.writer.SuggestMusic(ctx, songwriting.MusicParams{
		Lyrics:      req.Lyrics,
		Genre:       req.Genre,
		Vibe:        req.Vibe,
		Preferences: prefs,
	})
	if err != nil {
		return nil, classifyUpstream(err, CodeSuggestionError, "Failed to generate music suggestions")
	}
	suggestions := songwriting.NormalizeSuggestions(raw, req.Genre, req.Vibe, prefs)

	s.loggerFor(ctx).Debug("music suggested",
		logging.String("genre", req.Genre),
		logging.Float64("bpm", suggestions.Tempo.BPM),
		logging.String("key", suggestions.Key.Major),
	)

	return &SuggestMusicResponse{
		Suggestions: suggestions,
		Metadata: SuggestionMetadata{
			Genre:           req.Genre,
			Vibe:            req.Vibe,
			Preferences:     prefs,
			GeneratedAt:     s.timestamp(),
			LyricsWordCount: songwriting.WordCount(req.Lyrics),
		},
	}, nil
}

// SuggestMusicDocs answers GET /suggest-music with a description of the endpoint.
func (s *SongService) SuggestMusicDocs() map[string]any {
	return map[string]any{
		"endpoint":    s.provider.APIPrefix + "/suggest-music",
		"method":      "POST",
		"description": "Generate music production suggestions based on lyrics",
		"parameters": map[string]any{
			"lyrics": "Object containing song sections (verse1, chorus, etc.)",
			"genre":  "Musical genre (" + strings.Join(songwriting.Genres, ", ") + ")",
			"vibe":   "Emotional vibe (" + strings.Join(songwriting.Vibes, ", ") + ")",
			"preferences": map[string]string{
				"tempo":       "slow | mid | fast (optional)",
				"complexity":  "simple | moderate | complex (optional)",
				"instruments": "Array of preferred instruments (optional)",
			},
		},
		"response": map[string]string{
			"tempo":            "BPM and tempo description",
			"key":              "Musical key with relative minor",
			"chordProgression": "Chord progression with alternatives",
			"instrumentation":  "Primary and secondary instruments",
			"production":       "Production style and effects",
		},
	}
}
