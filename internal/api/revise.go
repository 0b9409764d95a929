package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lyricsmith/internal/logging"
	"lyricsmith/internal/services"
	"lyricsmith/internal/songwriting"
	"lyricsmith/internal/store"
)

// Revise rewrites one section of a stored song and records the revision.
//
// The revision row is written before the song update and the two are not
// wrapped in a transaction.
func (s *SongService) Revise(ctx context.Context, req ReviseRequest) (*ReviseResponse, error) {
	req.ApplyDefaults()
	logger := s.loggerFor(ctx).With(logging.SongID(req.SongID))

	song, err := s.store.GetSong(ctx, req.SongID)
	if err != nil {
		return nil, internalError(CodeRevisionError, "Failed to revise lyrics", err)
	}
	if song == nil {
		return nil, songNotFound(req.SongID)
	}

	current := req.Lyrics.Clone()
	var stored songwriting.Lyrics
	if err := json.Unmarshal([]byte(song.LyricsJSON), &stored); err != nil {
		logger.Warn("stored lyrics unreadable; using request lyrics",
			logging.String(logging.FieldEventType, "stored_lyrics_invalid"),
			logging.Error(err),
		)
	} else if stored != nil {
		current = stored
	}
	metadata := decodeMetadata(song.MetadataJSON)

	target := req.TargetName()
	section, ok := songwriting.ResolveSection(current, target)
	if section != "" && !ok {
		return nil, services.NewError(services.KindValidation, CodeSectionNotFound,
			fmt.Sprintf("Section %q not found in current lyrics", target)).
			WithDetails(map[string]any{
				"target":            target,
				"availableSections": current.Sections(),
			})
	}

	if err := songwriting.CheckInstruction(req.Instruction); err != nil {
		var instrErr *songwriting.InstructionError
		if errors.As(err, &instrErr) {
			return nil, services.NewError(services.KindPolicy, CodeInvalidInstruction, instrErr.Reason)
		}
		return nil, internalError(CodeRevisionError, "Failed to revise lyrics", err)
	}

	revision, err := s.writer.ReviseLyrics(ctx, songwriting.ReviseParams{
		Lyrics:            current,
		RevisionType:      req.RevisionType,
		Target:            section,
		Instruction:       req.Instruction,
		PreserveStructure: *req.PreserveStructure,
		Genre:             song.Genre,
		Vibe:              song.Vibe,
		Theme:             song.Theme,
	})
	if err != nil {
		return nil, classifyUpstream(err, CodeRevisionError, "Failed to revise lyrics")
	}

	updated := current.Clone()
	revised := songwriting.Lyrics{}
	if section != "" {
		revised[section] = revision.RevisedSection
		if revision.RevisedSection != "" {
			updated[section] = revision.RevisedSection
		}
	}

	oldJSON, err := json.Marshal(current)
	if err != nil {
		return nil, internalError(CodeRevisionError, "Failed to revise lyrics", err)
	}
	newJSON, err := json.Marshal(updated)
	if err != nil {
		return nil, internalError(CodeRevisionError, "Failed to revise lyrics", err)
	}

	row, err := s.store.CreateRevision(ctx, store.NewRevision{
		SongID:       song.ID,
		RevisionType: req.RevisionType,
		Instruction:  req.Instruction,
		OldLyrics:    string(oldJSON),
		NewLyrics:    string(newJSON),
	})
	if err != nil {
		return nil, internalError(CodeRevisionError, "Failed to revise lyrics", err)
	}

	now := s.timestamp()
	metadata["lastRevised"] = now
	metadata["revisionCount"] = revisionCount(metadata["revisionCount"]) + 1
	metadata["lastRevision"] = map[string]any{
		"id":          row.ID,
		"type":        req.RevisionType,
		"instruction": req.Instruction,
		"changes":     revision.Changes,
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, internalError(CodeRevisionError, "Failed to revise lyrics", err)
	}
	lyricsText := string(newJSON)
	metaText := string(metaJSON)
	if err := s.store.UpdateSong(ctx, song.ID, store.SongUpdate{LyricsJSON: &lyricsText, MetadataJSON: &metaText}); err != nil {
		return nil, internalError(CodeRevisionError, "Failed to revise lyrics", err)
	}

	logger.Info("lyrics revised",
		logging.String("revision_id", row.ID),
		logging.String("section", section),
		logging.String("revision_type", req.RevisionType),
	)

	return &ReviseResponse{
		RevisedLyrics: revised,
		FullLyrics:    updated,
		Changes:       revision.Changes,
		RevisionID:    row.ID,
		Metadata: RevisionMetadata{
			SongID:        song.ID,
			RevisionType:  req.RevisionType,
			TargetSection: target,
			Timestamp:     now,
		},
	}, nil
}

// ListRevisions returns the revision history of a song, newest first.
func (s *SongService) ListRevisions(ctx context.Context, songID string) (*RevisionList, error) {
	songID = strings.TrimSpace(songID)
	if songID == "" {
		return nil, services.NewError(services.KindValidation, CodeMissingSongID, "songId parameter is required")
	}
	rows, err := s.store.ListRevisions(ctx, songID)
	if err != nil {
		return nil, internalError(CodeFetchRevisionsError, "Failed to fetch revisions", err)
	}
	out := make([]RevisionSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, RevisionSummary{
			ID:          row.ID,
			Type:        row.RevisionType,
			Instruction: row.Instruction,
			CreatedAt:   formatTimestamp(row.CreatedAt),
		})
	}
	return &RevisionList{SongID: songID, Revisions: out, Count: len(out)}, nil
}

func songNotFound(id string) *services.Error {
	return services.NewError(services.KindNotFound, CodeSongNotFound, "Song not found").
		WithDetails(map[string]any{"songId": id})
}

func decodeMetadata(raw string) map[string]any {
	out := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

// revisionCount reads a JSON number as decoded into an any.
func revisionCount(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
