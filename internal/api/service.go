package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lyricsmith/internal/logging"
	"lyricsmith/internal/ratelimit"
	"lyricsmith/internal/services/tts"
	"lyricsmith/internal/songwriting"
	"lyricsmith/internal/store"
)

// SongStore abstracts the persistence operations SongService needs.
type SongStore interface {
	CreateSong(ctx context.Context, in store.NewSong) (*store.Song, error)
	GetSong(ctx context.Context, id string) (*store.Song, error)
	UpdateSong(ctx context.Context, id string, update store.SongUpdate) error
	ListSongs(ctx context.Context, limit int) ([]*store.Song, error)
	DeleteSong(ctx context.Context, id string) (bool, error)
	CreateRevision(ctx context.Context, in store.NewRevision) (*store.Revision, error)
	ListRevisions(ctx context.Context, songID string) ([]*store.Revision, error)
	RecordVoiceGeneration(ctx context.Context, in store.NewVoiceGeneration) (*store.VoiceGeneration, error)
	Counts(ctx context.Context) (store.Counts, error)
	UsageStats(ctx context.Context, since time.Time) (map[string]int, error)
	Ping(ctx context.Context) error
}

// Synthesizer abstracts the speech provider.
type Synthesizer interface {
	Configured() bool
	Synthesize(ctx context.Context, speech tts.Speech) (tts.Audio, error)
}

// PreviewSettings bound voice previews.
type PreviewSettings struct {
	DefaultSeconds int
	MaxSeconds     int
	Limiter        *ratelimit.Limiter
	Policy         ratelimit.Policy
	FailOpen       bool
}

// ProviderInfo is reported by Health.
type ProviderInfo struct {
	LLMProvider     string
	LLMModel        string
	LLMConfigured   bool
	VoiceModel      string
	VoiceConfigured bool
	RateLimitStore  string
	APIPrefix       string
}

// Options wires SongService collaborators.
type Options struct {
	Store    SongStore
	Writer   songwriting.Writer
	Voice    Synthesizer
	Preview  PreviewSettings
	Provider ProviderInfo
	Logger   *slog.Logger
	Now      func() time.Time
	NewID    func() string
}

// SongService implements every song operation exposed over HTTP.
type SongService struct {
	store    SongStore
	writer   songwriting.Writer
	voice    Synthesizer
	preview  PreviewSettings
	provider ProviderInfo
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewSongService constructs a SongService. Store and Writer are required.
func NewSongService(opts Options) *SongService {
	if opts.Store == nil || opts.Writer == nil {
		return nil
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = newUUID
	}
	if opts.Provider.APIPrefix == "" {
		opts.Provider.APIPrefix = "/api"
	}
	return &SongService{
		store:    opts.Store,
		writer:   opts.Writer,
		voice:    opts.Voice,
		preview:  opts.Preview,
		provider: opts.Provider,
		logger:   logging.NewComponentLogger(logger, "songs"),
		now:      now,
		newID:    newID,
	}
}

func (s *SongService) loggerFor(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, s.logger)
}

func (s *SongService) timestamp() string {
	return s.now().UTC().Format(dateTimeFormat)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

func newUUID() string { return uuid.NewString() }
