package songwriting_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyricsmith/internal/songwriting"
)

func TestNormalizeSuggestionsFillsGenreDefaults(t *testing.T) {
	got := songwriting.NormalizeSuggestions(songwriting.RawSuggestions{}, "rock", "aggressive", songwriting.Preferences{})

	assert.Equal(t, 160.0, got.Tempo.BPM)
	assert.Equal(t, "160 BPM matching the aggressive vibe", got.Tempo.Description)
	assert.Equal(t, "E", got.Key.Major)
	assert.Equal(t, "C#m", got.Key.RelativeMinor)
	assert.Equal(t, "E major suits the aggressive emotional tone of the rock genre", got.Key.Reasoning)
	assert.Equal(t, []string{"E", "A", "B", "C#m"}, got.ChordProgression.Progression)
	assert.Equal(t, []string{"E-A-B-C#m"}, got.ChordProgression.Alternatives)
	assert.Equal(t, "moderate", got.ChordProgression.Complexity)
	assert.Equal(t, "powerful and energetic", got.Instrumentation.Texture)
	assert.Equal(t, "verse-chorus with guitar solos", got.Production.Arrangement)
}

func TestNormalizeSuggestionsUnknownGenreFallsBackToPop(t *testing.T) {
	got := songwriting.NormalizeSuggestions(songwriting.RawSuggestions{}, "hiphop", "hype", songwriting.Preferences{Complexity: "complex"})

	assert.Equal(t, 130.0, got.Tempo.BPM)
	assert.Equal(t, "C", got.Key.Major)
	assert.Equal(t, "Am", got.Key.RelativeMinor)
	assert.Equal(t, "complex", got.ChordProgression.Complexity)
	assert.Equal(t, []string{"C", "G", "Am", "F"}, got.ChordProgression.Progression)
}

func TestNormalizeSuggestionsClampsAndCaps(t *testing.T) {
	var raw songwriting.RawSuggestions
	raw.Tempo.BPM = 240
	raw.Key.Major = "Bb"
	raw.ChordProgression.Progression = []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	raw.ChordProgression.Alternatives = []string{"a", "b", "c", "d"}
	raw.Instrumentation.Primary = []string{"a", "b", "c", "d", "e"}
	raw.Instrumentation.Secondary = []string{}
	raw.Production.Effects = []string{"1", "2", "3", "4", "5", "6"}

	got := songwriting.NormalizeSuggestions(raw, "pop", "chill", songwriting.Preferences{})

	assert.Equal(t, float64(songwriting.MaxBPM), got.Tempo.BPM)
	assert.Equal(t, "Gm", got.Key.RelativeMinor)
	assert.Len(t, got.ChordProgression.Progression, 6)
	assert.Len(t, got.ChordProgression.Alternatives, 3)
	assert.Len(t, got.Instrumentation.Primary, 4)
	assert.Empty(t, got.Instrumentation.Secondary)
	assert.NotNil(t, got.Instrumentation.Secondary)
	assert.Len(t, got.Production.Effects, 5)

	raw.Tempo.BPM = 12
	got = songwriting.NormalizeSuggestions(raw, "pop", "chill", songwriting.Preferences{})
	assert.Equal(t, float64(songwriting.MinBPM), got.Tempo.BPM)
}

func TestNormalizeSuggestionsDoesNotAliasDefaults(t *testing.T) {
	first := songwriting.NormalizeSuggestions(songwriting.RawSuggestions{}, "pop", "sad", songwriting.Preferences{})
	first.ChordProgression.Progression[0] = "X"

	second := songwriting.NormalizeSuggestions(songwriting.RawSuggestions{}, "pop", "sad", songwriting.Preferences{})
	assert.Equal(t, "C", second.ChordProgression.Progression[0])
}

func TestMockSuggestionsAreDeterministic(t *testing.T) {
	writer := songwriting.NewMockWriter()
	params := songwriting.MusicParams{
		Lyrics: songwriting.Lyrics{"verse1": "hello"},
		Genre:  "pop",
		Vibe:   "chill",
	}

	rawA, err := writer.SuggestMusic(context.Background(), params)
	require.NoError(t, err)
	rawB, err := writer.SuggestMusic(context.Background(), params)
	require.NoError(t, err)

	a := songwriting.NormalizeSuggestions(rawA, params.Genre, params.Vibe, params.Preferences)
	b := songwriting.NormalizeSuggestions(rawB, params.Genre, params.Vibe, params.Preferences)
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a.Tempo.BPM, float64(songwriting.MinBPM))
	assert.LessOrEqual(t, a.Tempo.BPM, float64(songwriting.MaxBPM))
	assert.LessOrEqual(t, len(a.ChordProgression.Progression), 6)
}

func TestRelativeMinor(t *testing.T) {
	cases := map[string]string{
		"C":  "Am",
		"Eb": "Cm",
		"F#": "D#m",
		"B":  "G#m",
		"H":  "Am",
	}
	for major, want := range cases {
		assert.Equal(t, want, songwriting.RelativeMinor(major), major)
	}
}
