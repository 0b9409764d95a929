package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrSongNotFound is returned by writes that target a missing song.
var ErrSongNotFound = errors.New("song not found")

const songColumns = "id, genre, vibe, theme, lyrics_json, metadata_json, voice_style, voice_preset, created_at, updated_at"

func scanSong(scanner interface{ Scan(dest ...any) error }) (*Song, error) {
	var (
		song        Song
		metadata    sql.NullString
		voiceStyle  sql.NullString
		voicePreset sql.NullString
		createdRaw  string
		updatedRaw  string
	)
	if err := scanner.Scan(
		&song.ID,
		&song.Genre,
		&song.Vibe,
		&song.Theme,
		&song.LyricsJSON,
		&metadata,
		&voiceStyle,
		&voicePreset,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	song.MetadataJSON = metadata.String
	song.VoiceStyle = voiceStyle.String
	song.VoicePreset = voicePreset.String
	if created, err := parseTimeString(createdRaw); err == nil {
		song.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		song.UpdatedAt = updated
	}
	return &song, nil
}

// CreateSong inserts a song and returns it with its generated id.
func (s *Store) CreateSong(ctx context.Context, in NewSong) (*Song, error) {
	now := s.now().UTC()
	song := &Song{
		ID:           uuid.NewString(),
		Genre:        in.Genre,
		Vibe:         in.Vibe,
		Theme:        in.Theme,
		LyricsJSON:   in.LyricsJSON,
		MetadataJSON: in.MetadataJSON,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO songs (id, genre, vibe, theme, lyrics_json, metadata_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		song.ID, song.Genre, song.Vibe, song.Theme, song.LyricsJSON, nullableString(song.MetadataJSON),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert song: %w", err)
	}
	return song, nil
}

// GetSong returns the song with id, or nil when it does not exist.
func (s *Store) GetSong(ctx context.Context, id string) (*Song, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), "SELECT "+songColumns+" FROM songs WHERE id = ?", id)
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get song: %w", err)
	}
	return song, nil
}

// UpdateSong applies the non-nil fields of update and bumps updated_at.
func (s *Store) UpdateSong(ctx context.Context, id string, update SongUpdate) error {
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(s.now())}
	if update.LyricsJSON != nil {
		sets = append(sets, "lyrics_json = ?")
		args = append(args, *update.LyricsJSON)
	}
	if update.MetadataJSON != nil {
		sets = append(sets, "metadata_json = ?")
		args = append(args, nullableString(*update.MetadataJSON))
	}
	if update.VoiceStyle != nil {
		sets = append(sets, "voice_style = ?")
		args = append(args, nullableString(*update.VoiceStyle))
	}
	if update.VoicePreset != nil {
		sets = append(sets, "voice_preset = ?")
		args = append(args, nullableString(*update.VoicePreset))
	}
	args = append(args, id)

	res, err := s.execWithRetry(ctx, "UPDATE songs SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update song: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrSongNotFound
	}
	return nil
}

// ListSongs returns up to limit songs, newest first. A non-positive limit
// returns every song.
func (s *Store) ListSongs(ctx context.Context, limit int) ([]*Song, error) {
	query := "SELECT " + songColumns + " FROM songs ORDER BY created_at DESC, rowid DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var songs []*Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// DeleteSong removes a song and its revisions. It reports whether a row was
// deleted.
func (s *Store) DeleteSong(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete song: %w", err)
	}
	return affected > 0, nil
}
