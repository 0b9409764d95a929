package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// RecordVoiceGeneration stores a synthesized rendition. When SongID is set
// the song also remembers the style and preset it was last voiced with.
func (s *Store) RecordVoiceGeneration(ctx context.Context, in NewVoiceGeneration) (*VoiceGeneration, error) {
	now := s.now().UTC()
	gen := &VoiceGeneration{
		ID:              uuid.NewString(),
		SongID:          in.SongID,
		VoiceStyle:      in.VoiceStyle,
		VoicePreset:     in.VoicePreset,
		Preview:         in.Preview,
		DurationSeconds: in.DurationSeconds,
		CreatedAt:       now,
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO voice_generations (id, song_id, voice_style, voice_preset, preview, duration_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		gen.ID, nullableString(gen.SongID), gen.VoiceStyle, gen.VoicePreset, boolToInt(gen.Preview),
		nullableFloat(gen.DurationSeconds), formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert voice generation: %w", err)
	}
	if gen.SongID != "" && !gen.Preview {
		style, preset := gen.VoiceStyle, gen.VoicePreset
		if err := s.UpdateSong(ctx, gen.SongID, SongUpdate{VoiceStyle: &style, VoicePreset: &preset}); err != nil {
			return gen, fmt.Errorf("link voice to song: %w", err)
		}
	}
	return gen, nil
}

// ListVoiceGenerations returns the generations linked to songID, newest first.
func (s *Store) ListVoiceGenerations(ctx context.Context, songID string) ([]*VoiceGeneration, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, song_id, voice_style, voice_preset, preview, duration_seconds, created_at
		 FROM voice_generations WHERE song_id = ? ORDER BY created_at DESC, rowid DESC`,
		songID,
	)
	if err != nil {
		return nil, fmt.Errorf("list voice generations: %w", err)
	}
	defer rows.Close()

	var out []*VoiceGeneration
	for rows.Next() {
		var (
			gen        VoiceGeneration
			songRef    sql.NullString
			preview    int
			duration   sql.NullFloat64
			createdRaw string
		)
		if err := rows.Scan(&gen.ID, &songRef, &gen.VoiceStyle, &gen.VoicePreset, &preview, &duration, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan voice generation: %w", err)
		}
		gen.SongID = songRef.String
		gen.Preview = preview != 0
		if duration.Valid {
			d := duration.Float64
			gen.DurationSeconds = &d
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			gen.CreatedAt = created
		}
		out = append(out, &gen)
	}
	return out, rows.Err()
}
