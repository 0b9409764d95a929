package voice

import (
	"fmt"
	"math"
	"slices"
)

// Artist styles accepted by the voice endpoints.
const (
	StyleTaylorSwift  = "taylor-swift"
	StyleEdSheeran    = "ed-sheeran"
	StyleDrake        = "drake"
	StyleBillieEilish = "billie-eilish"
	StyleAdele        = "adele"
	StyleWeeknd       = "weeknd"
)

// Styles lists every supported artist style in presentation order.
var Styles = []string{StyleTaylorSwift, StyleEdSheeran, StyleDrake, StyleBillieEilish, StyleAdele, StyleWeeknd}

// Mapping describes how a style is rendered by the speech provider.
type Mapping struct {
	Preset      string
	Pitch       int
	Speed       float64
	EmotionHint string
}

var mappings = map[string]Mapping{
	StyleTaylorSwift:  {Preset: "nova", Pitch: 2, Speed: 1, EmotionHint: "bright"},
	StyleEdSheeran:    {Preset: "onyx", Pitch: 0, Speed: 1, EmotionHint: "warm"},
	StyleDrake:        {Preset: "echo", Pitch: -1, Speed: 0.95, EmotionHint: "confident"},
	StyleBillieEilish: {Preset: "shimmer", Pitch: 1, Speed: 0.9, EmotionHint: "intimate"},
	StyleAdele:        {Preset: "fable", Pitch: 1, Speed: 0.98, EmotionHint: "powerful"},
	StyleWeeknd:       {Preset: "alloy", Pitch: 0, Speed: 1.05, EmotionHint: "atmospheric"},
}

// Lookup returns the mapping for style.
func Lookup(style string) (Mapping, error) {
	m, ok := mappings[style]
	if !ok {
		return Mapping{}, fmt.Errorf("unsupported artist style: %s", style)
	}
	return m, nil
}

// IsStyle reports whether style is supported.
func IsStyle(style string) bool {
	return slices.Contains(Styles, style)
}

const (
	MinSpeed = 0.25
	MaxSpeed = 2.0
)

// NormalizeSpeed combines the style speed with the requested tempo and clamps
// the result to what the provider accepts. A zero tempo counts as 1.
func NormalizeSpeed(tempo, mappingSpeed float64) float64 {
	if mappingSpeed == 0 {
		mappingSpeed = 1
	}
	if tempo == 0 {
		tempo = 1
	}
	combined := mappingSpeed * tempo
	if math.IsNaN(combined) || math.IsInf(combined, 0) {
		combined = 1
	}
	return math.Min(MaxSpeed, math.Max(MinSpeed, combined))
}

// Emotion picks the delivery hint: the explicit request wins over the style.
func (m Mapping) Emotion(requested string) string {
	if requested != "" {
		return requested
	}
	return m.EmotionHint
}
