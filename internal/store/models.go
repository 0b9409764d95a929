package store

import "time"

// Song is a persisted song.
type Song struct {
	ID           string
	Genre        string
	Vibe         string
	Theme        string
	LyricsJSON   string
	MetadataJSON string
	VoiceStyle   string
	VoicePreset  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSong carries the fields of a song insert.
type NewSong struct {
	Genre        string
	Vibe         string
	Theme        string
	LyricsJSON   string
	MetadataJSON string
}

// SongUpdate lists the song columns to change. Nil fields are left alone.
type SongUpdate struct {
	LyricsJSON   *string
	MetadataJSON *string
	VoiceStyle   *string
	VoicePreset  *string
}

// Revision records one lyrics change.
type Revision struct {
	ID           string
	SongID       string
	RevisionType string
	Instruction  string
	OldLyrics    string
	NewLyrics    string
	CreatedAt    time.Time
}

// NewRevision carries the fields of a revision insert.
type NewRevision struct {
	SongID       string
	RevisionType string
	Instruction  string
	OldLyrics    string
	NewLyrics    string
}

// VoiceGeneration tracks a synthesized rendition.
type VoiceGeneration struct {
	ID              string
	SongID          string
	VoiceStyle      string
	VoicePreset     string
	Preview         bool
	DurationSeconds *float64
	CreatedAt       time.Time
}

// NewVoiceGeneration carries the fields of a voice generation insert.
type NewVoiceGeneration struct {
	SongID          string
	VoiceStyle      string
	VoicePreset     string
	Preview         bool
	DurationSeconds *float64
}

// Counts summarizes table sizes.
type Counts struct {
	Songs            int `json:"totalSongs"`
	Revisions        int `json:"totalRevisions"`
	VoiceGenerations int `json:"totalVoiceGenerations"`
}
