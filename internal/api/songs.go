package api

import (
	"context"
	"encoding/json"

	"lyricsmith/internal/logging"
	"lyricsmith/internal/songwriting"
	"lyricsmith/internal/store"
)

// DefaultSongListLimit bounds ListSongs when no limit is given.
const DefaultSongListLimit = 50

// GetSong returns a stored song.
func (s *SongService) GetSong(ctx context.Context, id string) (*SongDetail, error) {
	song, err := s.store.GetSong(ctx, id)
	if err != nil {
		return nil, internalError(CodeSongFetchError, "Failed to fetch song", err)
	}
	if song == nil {
		return nil, songNotFound(id)
	}
	detail := s.songDetail(ctx, song)
	return &detail, nil
}

// ListSongs returns up to limit songs, newest first.
func (s *SongService) ListSongs(ctx context.Context, limit int) ([]SongDetail, error) {
	if limit <= 0 {
		limit = DefaultSongListLimit
	}
	songs, err := s.store.ListSongs(ctx, limit)
	if err != nil {
		return nil, internalError(CodeSongFetchError, "Failed to fetch songs", err)
	}
	out := make([]SongDetail, 0, len(songs))
	for _, song := range songs {
		out = append(out, s.songDetail(ctx, song))
	}
	return out, nil
}

// DeleteSong removes a song with its revisions.
func (s *SongService) DeleteSong(ctx context.Context, id string) error {
	removed, err := s.store.DeleteSong(ctx, id)
	if err != nil {
		return internalError(CodeSongFetchError, "Failed to delete song", err)
	}
	if !removed {
		return songNotFound(id)
	}
	s.loggerFor(ctx).Info("song deleted", logging.SongID(id))
	return nil
}

func (s *SongService) songDetail(ctx context.Context, song *store.Song) SongDetail {
	detail := SongDetail{
		ID:          song.ID,
		Genre:       song.Genre,
		Vibe:        song.Vibe,
		Theme:       song.Theme,
		Lyrics:      songwriting.Lyrics{},
		VoiceStyle:  song.VoiceStyle,
		VoicePreset: song.VoicePreset,
		CreatedAt:   formatTimestamp(song.CreatedAt),
		UpdatedAt:   formatTimestamp(song.UpdatedAt),
	}
	if err := json.Unmarshal([]byte(song.LyricsJSON), &detail.Lyrics); err != nil {
		s.loggerFor(ctx).Debug("stored lyrics unreadable",
			logging.SongID(song.ID),
			logging.Error(err),
		)
		detail.Lyrics = songwriting.Lyrics{}
	}
	if json.Valid([]byte(song.MetadataJSON)) {
		detail.Metadata = json.RawMessage(song.MetadataJSON)
	}
	return detail
}
