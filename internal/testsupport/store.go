package testsupport

import (
	"context"
	"encoding/json"
	"testing"

	"lyricsmith/internal/config"
	"lyricsmith/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewSong inserts a song with the given lyrics for tests.
func NewSong(t testing.TB, st *store.Store, lyrics map[string]string) *store.Song {
	t.Helper()

	payload, err := json.Marshal(lyrics)
	if err != nil {
		t.Fatalf("marshal lyrics: %v", err)
	}
	song, err := st.CreateSong(context.Background(), store.NewSong{
		Genre:        "pop",
		Vibe:         "romantic",
		Theme:        "love",
		LyricsJSON:   string(payload),
		MetadataJSON: `{"genre":"pop","vibe":"romantic","theme":"love"}`,
	})
	if err != nil {
		t.Fatalf("store.CreateSong: %v", err)
	}
	return song
}
