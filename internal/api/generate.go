package api

import (
	"context"
	"encoding/json"

	"lyricsmith/internal/logging"
	"lyricsmith/internal/songwriting"
	"lyricsmith/internal/store"
	"lyricsmith/internal/voice"
)

// storedMetadata is the metadata_json document of a generated song.
type storedMetadata struct {
	SongMetadata
	Suggestions     songwriting.Suggestions `json:"suggestions"`
	OriginalRequest GenerateSongRequest     `json:"originalRequest"`
}

// GenerateSong writes lyrics, derives music suggestions, and persists the song.
func (s *SongService) GenerateSong(ctx context.Context, req GenerateSongRequest) (*GenerateSongResponse, error) {
	logger := s.loggerFor(ctx)

	lyrics, err := s.writer.GenerateLyrics(ctx, songwriting.GenerateParams{
		Genre:          req.Genre,
		Vibe:           req.Vibe,
		Theme:          req.Theme,
		Style:          req.Style,
		SeedPhrase:     req.SeedPhrase,
		Sections:       req.Sections,
		UniquenessHint: s.newID(),
	})
	if err != nil {
		return nil, classifyUpstream(err, CodeGenerationError, "Failed to generate song")
	}
	if lyrics[songwriting.SectionVerse1] == "" && lyrics[songwriting.SectionChorus] == "" {
		return nil, internalError(CodeGenerationError, "Failed to generate song", errMissingCoreSection)
	}

	prefs := songwriting.Preferences{Tempo: tempoPreference(req.Style), Complexity: "moderate"}.WithDefaults()
	raw, err := s.writer.SuggestMusic(ctx, songwriting.MusicParams{
		Lyrics:      lyrics,
		Genre:       req.Genre,
		Vibe:        req.Vibe,
		Preferences: prefs,
	})
	if err != nil {
		return nil, classifyUpstream(err, CodeGenerationError, "Failed to generate song")
	}
	suggestions := songwriting.NormalizeSuggestions(raw, req.Genre, req.Vibe, prefs)

	options := VoiceOptions{
		Tempo:                voiceTempo(req.Style),
		Emotion:              req.Vibe,
		AvailableVoiceStyles: append([]string(nil), voice.Styles...),
	}
	metadata := SongMetadata{
		Genre:             req.Genre,
		Vibe:              req.Vibe,
		Theme:             req.Theme,
		WordCount:         songwriting.WordCount(lyrics),
		EstimatedDuration: songwriting.EstimateDuration(lyrics, suggestions.Tempo.BPM),
		VoiceOptions:      options,
	}

	lyricsJSON, err := json.Marshal(lyrics)
	if err != nil {
		return nil, internalError(CodeGenerationError, "Failed to generate song", err)
	}
	metadataJSON, err := json.Marshal(storedMetadata{
		SongMetadata:    metadata,
		Suggestions:     suggestions,
		OriginalRequest: req,
	})
	if err != nil {
		return nil, internalError(CodeGenerationError, "Failed to generate song", err)
	}

	song, err := s.store.CreateSong(ctx, store.NewSong{
		Genre:        req.Genre,
		Vibe:         req.Vibe,
		Theme:        req.Theme,
		LyricsJSON:   string(lyricsJSON),
		MetadataJSON: string(metadataJSON),
	})
	if err != nil {
		return nil, internalError(CodeGenerationError, "Failed to generate song", err)
	}

	logger.Info("song generated",
		logging.SongID(song.ID),
		logging.String("genre", req.Genre),
		logging.String("vibe", req.Vibe),
		logging.Int("word_count", metadata.WordCount),
	)

	return &GenerateSongResponse{
		SongID:               song.ID,
		Lyrics:               lyrics,
		Metadata:             metadata,
		Suggestions:          suggestions,
		VoiceOptions:         options,
		AvailableVoiceStyles: options.AvailableVoiceStyles,
	}, nil
}

// GenerateSongStatus answers GET /generate-song.
func (s *SongService) GenerateSongStatus() map[string]string {
	return map[string]string{
		"status":    "generate-song endpoint is running",
		"timestamp": s.timestamp(),
		"version":   Version,
	}
}

func tempoPreference(style string) string {
	switch style {
	case "slow":
		return "slow"
	case "fast":
		return "fast"
	default:
		return "mid"
	}
}

func voiceTempo(style string) float64 {
	switch style {
	case "fast":
		return 1.25
	case "slow":
		return 0.9
	default:
		return 1
	}
}
