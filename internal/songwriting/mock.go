package songwriting

import (
	"context"
	"fmt"
)

// MockWriter returns canned output without calling a provider.
type MockWriter struct{}

// NewMockWriter returns a MockWriter.
func NewMockWriter() *MockWriter { return &MockWriter{} }

// GenerateLyrics returns a fixed song that mentions the request fields.
func (MockWriter) GenerateLyrics(_ context.Context, params GenerateParams) (Lyrics, error) {
	seed := params.SeedPhrase
	if seed == "" {
		seed = "a spark of sound"
	}
	return Lyrics{
		SectionVerse1:    fmt.Sprintf("(%s • %s) Verse about %s: Falling into the groove with %s.", params.Genre, params.Vibe, params.Theme, seed),
		SectionPreChorus: "Building up the feeling, letting colors start to glow.",
		SectionChorus:    "This is our moment, we light up the night, hearts in stereo, we’re taking flight.",
		SectionBridge:    "Softly we echo, drifting on the skyline.",
		SectionHook:      "Oh-oh, we ride the wave tonight.",
	}, nil
}

// ReviseLyrics returns a fixed revision naming the target and instruction.
func (MockWriter) ReviseLyrics(_ context.Context, params ReviseParams) (Revision, error) {
	target := params.Target
	if target == "" {
		target = "section"
	}
	return Revision{
		RevisedSection: fmt.Sprintf("Refined %s with %q while keeping the %s %s vibe.", target, params.Instruction, params.Vibe, params.Genre),
		Changes: []string{
			fmt.Sprintf("Adjusted %s per instruction", target),
			"Kept structure and tone intact",
		},
	}, nil
}

// SuggestMusic returns fixed suggestions.
func (MockWriter) SuggestMusic(context.Context, MusicParams) (RawSuggestions, error) {
	var raw RawSuggestions
	raw.Tempo.BPM = 110
	raw.Tempo.Description = "Laid-back pocket that fits the lyrical pacing"
	raw.Key.Major = "C"
	raw.Key.RelativeMinor = "Am"
	raw.Key.Reasoning = "Neutral, versatile key for most voices"
	raw.ChordProgression.Progression = []string{"C", "G", "Am", "F"}
	raw.ChordProgression.Complexity = "moderate"
	raw.ChordProgression.Alternatives = []string{"C-Am-F-G"}
	raw.Instrumentation.Primary = []string{"vocals", "electric piano", "bass", "drums"}
	raw.Instrumentation.Secondary = []string{"guitar", "pads"}
	raw.Instrumentation.Texture = "warm and spacey"
	raw.Production.Style = "modern, clean mix with light saturation"
	raw.Production.Effects = []string{"reverb", "delay"}
	raw.Production.Arrangement = "intro - verse - pre - chorus - bridge - outro"
	return raw, nil
}

// Chat echoes the message back with a hint that no provider is configured.
func (MockWriter) Chat(_ context.Context, params ChatParams) (string, error) {
	return fmt.Sprintf("(offline assistant) Try building your next line around: %q", params.Message), nil
}
