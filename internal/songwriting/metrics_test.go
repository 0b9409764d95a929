package songwriting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lyricsmith/internal/songwriting"
)

func TestWordCountIgnoresTags(t *testing.T) {
	lyrics := songwriting.Lyrics{
		"verse1": "[Verse 1]\nwe were   young\nand bright",
		"chorus": "[Chorus] sing it",
	}
	assert.Equal(t, 7, songwriting.WordCount(lyrics))
}

func TestEstimateDuration(t *testing.T) {
	lyrics := songwriting.Lyrics{"verse1": "one two three four five six seven eight"}
	// 8 words / 0.8 = 10 beats; 10/120 min = 5s; plus 30s.
	assert.Equal(t, "0:35", songwriting.EstimateDuration(lyrics, 120))
	assert.Equal(t, "0:30", songwriting.EstimateDuration(songwriting.Lyrics{}, 120))
	assert.Equal(t, "0:35", songwriting.EstimateDuration(lyrics, 0))
}
