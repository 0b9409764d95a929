package songwriting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lyricsmith/internal/songwriting"
)

func TestNormalizeSectionAliases(t *testing.T) {
	tests := map[string]string{
		"verse 1":    "verse1",
		"verse1":     "verse1",
		"Verse":      "verse1",
		"intro":      "verse1",
		"VERSE 2":    "verse2",
		"pre-chorus": "preChorus",
		"prechorus":  "preChorus",
		"pre chorus": "preChorus",
		"outro":      "bridge",
		"hook":       "hook",
		"coda":       "coda",
		"preChorus":  "preChorus",
	}
	for input, want := range tests {
		assert.Equal(t, want, songwriting.NormalizeSection(input), input)
	}
}

func TestResolveSection(t *testing.T) {
	lyrics := songwriting.Lyrics{"verse1": "line", "chorus": "", "bridge": "b"}

	key, ok := songwriting.ResolveSection(lyrics, "verse 1")
	assert.True(t, ok)
	assert.Equal(t, "verse1", key)

	again, ok := songwriting.ResolveSection(lyrics, "verse1")
	assert.True(t, ok)
	assert.Equal(t, key, again)

	_, ok = songwriting.ResolveSection(lyrics, "chorus")
	assert.False(t, ok)

	_, ok = songwriting.ResolveSection(lyrics, "verse 2")
	assert.False(t, ok)
}

func TestLyricsSectionsOrder(t *testing.T) {
	lyrics := songwriting.Lyrics{
		"hook":   "h",
		"zeta":   "z",
		"chorus": "c",
		"verse1": "v",
		"alpha":  "a",
		"bridge": "",
	}
	assert.Equal(t, []string{"verse1", "chorus", "hook", "alpha", "zeta"}, lyrics.Sections())
}
