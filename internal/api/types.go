package api

import (
	"encoding/json"

	"lyricsmith/internal/songwriting"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Version is reported by the health and status endpoints.
const Version = "1.0.0"

// GenerateSongRequest is the body of POST /generate-song.
type GenerateSongRequest struct {
	Genre      string   `json:"genre" validate:"required,oneof=pop rap r&b country indie rock hiphop rnb"`
	Vibe       string   `json:"vibe" validate:"required,oneof=sad hype dreamy aggressive romantic chill"`
	Theme      string   `json:"theme" validate:"required,min=1"`
	Style      string   `json:"style,omitempty" validate:"omitempty,oneof=slow fast mid-tempo mid"`
	SeedPhrase string   `json:"seedPhrase,omitempty"`
	Sections   []string `json:"sections,omitempty" validate:"omitempty,dive,oneof=verse chorus pre-chorus bridge hook verse1 verse2 preChorus"`
}

// ReviseRequest is the body of POST /revise.
type ReviseRequest struct {
	SongID            string             `json:"songId" validate:"required,uuid"`
	Lyrics            songwriting.Lyrics `json:"lyrics" validate:"required"`
	RevisionType      string             `json:"revisionType" validate:"required,oneof=section lines style rhyme mood"`
	Target            *string            `json:"target" validate:"required"`
	Instruction       string             `json:"instruction" validate:"required,min=1"`
	PreserveStructure *bool              `json:"preserveStructure,omitempty"`
}

// TargetName returns the requested section name, empty when absent.
func (r *ReviseRequest) TargetName() string {
	if r.Target == nil {
		return ""
	}
	return *r.Target
}

// ApplyDefaults fills optional fields after validation.
func (r *ReviseRequest) ApplyDefaults() {
	if r.PreserveStructure == nil {
		preserve := true
		r.PreserveStructure = &preserve
	}
}

// PreferencesRequest is the optional preferences block of a suggestion request.
type PreferencesRequest struct {
	Tempo       string   `json:"tempo,omitempty" validate:"omitempty,oneof=slow mid fast"`
	Complexity  string   `json:"complexity,omitempty" validate:"omitempty,oneof=simple moderate complex"`
	Instruments []string `json:"instruments,omitempty"`
}

// SuggestMusicRequest is the body of POST /suggest-music.
type SuggestMusicRequest struct {
	Lyrics      songwriting.Lyrics  `json:"lyrics" validate:"required"`
	Genre       string              `json:"genre" validate:"required,oneof=pop rap r&b country indie rock hiphop rnb"`
	Vibe        string              `json:"vibe" validate:"required,oneof=sad hype dreamy aggressive romantic chill"`
	Preferences *PreferencesRequest `json:"preferences,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string                   `json:"message"`
	Context *songwriting.SongContext `json:"context,omitempty"`
}

// GenerateVoiceRequest is the body of POST /generate-voice.
type GenerateVoiceRequest struct {
	Lyrics      string   `json:"lyrics" validate:"required,min=1"`
	ArtistStyle string   `json:"artistStyle" validate:"required,oneof=taylor-swift ed-sheeran drake billie-eilish adele weeknd"`
	Tempo       *float64 `json:"tempo,omitempty" validate:"omitempty,min=0.25,max=4"`
	Emotion     string   `json:"emotion,omitempty" validate:"omitempty,max=64"`
	SongID      string   `json:"songId,omitempty" validate:"omitempty,uuid"`
}

// ApplyDefaults fills optional fields after validation.
func (r *GenerateVoiceRequest) ApplyDefaults() {
	if r.Tempo == nil {
		tempo := 1.0
		r.Tempo = &tempo
	}
}

// PreviewVoiceRequest is the body of POST /preview-voice.
type PreviewVoiceRequest struct {
	Lyrics      string   `json:"lyrics" validate:"required,min=1,max=2000"`
	ArtistStyle string   `json:"artistStyle" validate:"required,oneof=taylor-swift ed-sheeran drake billie-eilish adele weeknd"`
	Duration    *float64 `json:"duration,omitempty" validate:"omitempty,min=1,max=15"`
}

// VoiceOptions describes how a song can be voiced.
type VoiceOptions struct {
	ArtistStyle          *string  `json:"artistStyle"`
	Tempo                float64  `json:"tempo"`
	Emotion              string   `json:"emotion"`
	AvailableVoiceStyles []string `json:"availableVoiceStyles"`
	GeneratedVoiceURL    *string  `json:"generatedVoiceUrl"`
}

// SongMetadata summarizes a generated song.
type SongMetadata struct {
	Genre             string       `json:"genre"`
	Vibe              string       `json:"vibe"`
	Theme             string       `json:"theme"`
	WordCount         int          `json:"wordCount"`
	EstimatedDuration string       `json:"estimatedDuration"`
	VoiceOptions      VoiceOptions `json:"voiceOptions"`
}

// GenerateSongResponse is returned by GenerateSong.
type GenerateSongResponse struct {
	SongID               string                  `json:"songId"`
	Lyrics               songwriting.Lyrics      `json:"lyrics"`
	Metadata             SongMetadata            `json:"metadata"`
	Suggestions          songwriting.Suggestions `json:"suggestions"`
	VoiceOptions         VoiceOptions            `json:"voiceOptions"`
	AvailableVoiceStyles []string                `json:"availableVoiceStyles"`
	GeneratedVoiceURL    *string                 `json:"generatedVoiceUrl"`
}

// RevisionMetadata describes a completed revision.
type RevisionMetadata struct {
	SongID        string `json:"songId"`
	RevisionType  string `json:"revisionType"`
	TargetSection string `json:"targetSection"`
	Timestamp     string `json:"timestamp"`
}

// ReviseResponse is returned by Revise.
type ReviseResponse struct {
	RevisedLyrics songwriting.Lyrics `json:"revisedLyrics"`
	FullLyrics    songwriting.Lyrics `json:"fullLyrics"`
	Changes       []string           `json:"changes"`
	RevisionID    string             `json:"revisionId"`
	Metadata      RevisionMetadata   `json:"metadata"`
}

// RevisionSummary is one entry of a revision listing.
type RevisionSummary struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Instruction string `json:"instruction"`
	CreatedAt   string `json:"createdAt"`
}

// RevisionList is returned by ListRevisions.
type RevisionList struct {
	SongID    string            `json:"songId"`
	Revisions []RevisionSummary `json:"revisions"`
	Count     int               `json:"count"`
}

// SuggestionMetadata describes a suggestion request.
type SuggestionMetadata struct {
	Genre           string                  `json:"genre"`
	Vibe            string                  `json:"vibe"`
	Preferences     songwriting.Preferences `json:"preferences"`
	GeneratedAt     string                  `json:"generatedAt"`
	LyricsWordCount int                     `json:"lyricsWordCount"`
}

// SuggestMusicResponse is returned by SuggestMusic.
type SuggestMusicResponse struct {
	songwriting.Suggestions
	Metadata SuggestionMetadata `json:"metadata"`
}

// ChatResponse is returned by Chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// VoiceAudio is a synthesized rendition ready to stream.
type VoiceAudio struct {
	Data            []byte
	ContentType     string
	Filename        string
	Style           string
	Preset          string
	Preview         bool
	PreviewDuration float64
}

// SongDetail is a stored song.
type SongDetail struct {
	ID          string             `json:"id"`
	Genre       string             `json:"genre"`
	Vibe        string             `json:"vibe"`
	Theme       string             `json:"theme"`
	Lyrics      songwriting.Lyrics `json:"lyrics"`
	Metadata    json.RawMessage    `json:"metadata,omitempty"`
	VoiceStyle  string             `json:"voiceStyle,omitempty"`
	VoicePreset string             `json:"voicePreset,omitempty"`
	CreatedAt   string             `json:"createdAt,omitempty"`
	UpdatedAt   string             `json:"updatedAt,omitempty"`
}

// ServiceHealth reports one dependency.
type ServiceHealth struct {
	Status  string `json:"status"`
	Details any    `json:"details,omitempty"`
}

// HealthStats carries store totals and recent usage.
type HealthStats struct {
	TotalSongs            int            `json:"totalSongs"`
	TotalRevisions        int            `json:"totalRevisions"`
	TotalVoiceGenerations int            `json:"totalVoiceGenerations"`
	UsageStats            map[string]int `json:"usageStats"`
}

// HealthResponse is returned by Health.
type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Version   string                   `json:"version"`
	Services  map[string]ServiceHealth `json:"services"`
	Stats     HealthStats              `json:"stats"`
	Endpoints map[string]string        `json:"endpoints"`
}
