package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const revisionColumns = "id, song_id, revision_type, instruction, old_lyrics, new_lyrics, created_at"

// CreateRevision inserts a revision row for an existing song.
func (s *Store) CreateRevision(ctx context.Context, in NewRevision) (*Revision, error) {
	now := s.now().UTC()
	rev := &Revision{
		ID:           uuid.NewString(),
		SongID:       in.SongID,
		RevisionType: in.RevisionType,
		Instruction:  in.Instruction,
		OldLyrics:    in.OldLyrics,
		NewLyrics:    in.NewLyrics,
		CreatedAt:    now,
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO revisions (id, song_id, revision_type, instruction, old_lyrics, new_lyrics, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rev.ID, rev.SongID, rev.RevisionType, rev.Instruction, rev.OldLyrics, rev.NewLyrics, formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert revision: %w", err)
	}
	return rev, nil
}

// ListRevisions returns the revisions of songID, newest first.
func (s *Store) ListRevisions(ctx context.Context, songID string) ([]*Revision, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT "+revisionColumns+" FROM revisions WHERE song_id = ? ORDER BY created_at DESC, rowid DESC",
		songID,
	)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	revisions := []*Revision{}
	for rows.Next() {
		var (
			rev        Revision
			createdRaw string
		)
		if err := rows.Scan(&rev.ID, &rev.SongID, &rev.RevisionType, &rev.Instruction, &rev.OldLyrics, &rev.NewLyrics, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			rev.CreatedAt = created
		}
		revisions = append(revisions, &rev)
	}
	return revisions, rows.Err()
}
