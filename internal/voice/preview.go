package voice

import "math"

// HardMaxPreviewSeconds bounds every preview regardless of configuration.
const HardMaxPreviewSeconds = 15

const (
	minPreviewChars    = 120
	previewCharsPerSec = 28

	// PreviewEmotion is the delivery hint sent with every preview.
	PreviewEmotion = "preview"
	// PreviewTempo is the fixed tempo of previews.
	PreviewTempo = 1.0
)

// PreviewDuration resolves the effective preview length in seconds. The
// configured default is also the ceiling, itself capped by the configured
// maximum and HardMaxPreviewSeconds.
func PreviewDuration(requested float64, configuredDefault, configuredMax int) float64 {
	ceiling := configuredDefault
	if configuredMax > 0 && configuredMax < ceiling {
		ceiling = configuredMax
	}
	ceiling = min(ceiling, HardMaxPreviewSeconds)
	duration := requested
	if duration <= 0 {
		duration = float64(configuredDefault)
	}
	return math.Min(duration, float64(ceiling))
}

// PreviewBudget is the number of characters synthesized for a preview of
// the given length.
func PreviewBudget(seconds float64) int {
	return max(minPreviewChars, int(math.Floor(seconds*previewCharsPerSec)))
}

// TruncatePreview cuts lyrics to the preview budget for seconds. It counts
// runes so multi-byte text is never split mid-character.
func TruncatePreview(lyrics string, seconds float64) string {
	budget := PreviewBudget(seconds)
	runes := 0
	for i := range lyrics {
		if runes == budget {
			return lyrics[:i]
		}
		runes++
	}
	return lyrics
}
