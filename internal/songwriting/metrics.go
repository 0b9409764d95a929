package songwriting

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

const wordsPerBeat = 0.8

var bracketTag = regexp.MustCompile(`\[.*?\]`)

// WordCount counts whitespace-separated words across all sections, ignoring
// bracketed tags such as [Chorus].
func WordCount(lyrics Lyrics) int {
	total := 0
	for _, text := range lyrics {
		total += len(strings.Fields(bracketTag.ReplaceAllString(text, "")))
	}
	return total
}

// EstimateDuration approximates the sung length of lyrics at bpm and adds
// half a minute for intro and outro. The result is formatted m:ss.
func EstimateDuration(lyrics Lyrics, bpm float64) string {
	if bpm <= 0 {
		bpm = 120
	}
	minutes := float64(WordCount(lyrics))/wordsPerBeat/bpm + 0.5
	whole := math.Floor(minutes)
	seconds := int(math.Round((minutes - whole) * 60))
	if seconds == 60 {
		whole++
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", int(whole), seconds)
}
