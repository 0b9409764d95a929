package songwriting

import (
	"fmt"
	"math"
	"strings"
)

// RawSuggestions is the loosely typed shape a writer returns. Zero values
// and nil slices mean the field was absent.
type RawSuggestions struct {
	Tempo struct {
		BPM         float64 `json:"bpm"`
		Description string  `json:"description"`
	} `json:"tempo"`
	Key struct {
		Major         string `json:"major"`
		RelativeMinor string `json:"relativeMinor"`
		Reasoning     string `json:"reasoning"`
	} `json:"key"`
	ChordProgression struct {
		Progression  []string `json:"progression"`
		Complexity   string   `json:"complexity"`
		Alternatives []string `json:"alternatives"`
	} `json:"chordProgression"`
	Instrumentation struct {
		Primary   []string `json:"primary"`
		Secondary []string `json:"secondary"`
		Texture   string   `json:"texture"`
	} `json:"instrumentation"`
	Production struct {
		Style       string   `json:"style"`
		Effects     []string `json:"effects"`
		Arrangement string   `json:"arrangement"`
	} `json:"production"`
}

// Tempo is the normalized tempo suggestion.
type Tempo struct {
	BPM         float64 `json:"bpm"`
	Description string  `json:"description"`
}

// Key is the normalized key suggestion.
type Key struct {
	Major         string `json:"major"`
	RelativeMinor string `json:"relativeMinor"`
	Reasoning     string `json:"reasoning"`
}

// ChordProgression is the normalized harmony suggestion.
type ChordProgression struct {
	Progression  []string `json:"progression"`
	Complexity   string   `json:"complexity"`
	Alternatives []string `json:"alternatives"`
}

// Instrumentation is the normalized arrangement suggestion.
type Instrumentation struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
	Texture   string   `json:"texture"`
}

// Production is the normalized mix suggestion.
type Production struct {
	Style       string   `json:"style"`
	Effects     []string `json:"effects"`
	Arrangement string   `json:"arrangement"`
}

// Suggestions is a fully populated music suggestion.
type Suggestions struct {
	Tempo            Tempo            `json:"tempo"`
	Key              Key              `json:"key"`
	ChordProgression ChordProgression `json:"chordProgression"`
	Instrumentation  Instrumentation  `json:"instrumentation"`
	Production       Production       `json:"production"`
}

const (
	MinBPM = 60
	MaxBPM = 180

	maxProgression  = 6
	maxAlternatives = 3
	maxInstruments  = 4
	maxEffects      = 5
)

type genreDefaults struct {
	tempo       func(vibe string) float64
	key         string
	progression []string
	primary     []string
	secondary   []string
	texture     string
	style       string
	effects     []string
	arrangement string
}

func tempoFor(fallback float64, byVibe map[string]float64) func(string) float64 {
	return func(vibe string) float64 {
		if bpm, ok := byVibe[vibe]; ok {
			return bpm
		}
		return fallback
	}
}

var defaultsByGenre = map[string]genreDefaults{
	"pop": {
		tempo:       tempoFor(120, map[string]float64{"sad": 80, "hype": 130}),
		key:         "C",
		progression: []string{"C", "G", "Am", "F"},
		primary:     []string{"vocals", "synthesizer", "bass guitar", "drums"},
		secondary:   []string{"background vocals", "piano", "guitar"},
		texture:     "polished, radio-friendly production",
		style:       "modern pop with clean mix",
		effects:     []string{"reverb", "compression", "delay", "auto-tune"},
		arrangement: "verse-chorus structure with hooks",
	},
	"rap": {
		tempo:       tempoFor(90, map[string]float64{"hype": 140, "aggressive": 150}),
		key:         "C",
		progression: []string{"Cm", "G", "Ab", "Eb"},
		primary:     []string{"drum machine", "bass synthesizer", "sampler", "turntables"},
		secondary:   []string{"808 bass", "hi-hats", "snare", "synth pads"},
		texture:     "hard-hitting beats with deep bass",
		style:       "hip-hop with heavy rhythm",
		effects:     []string{"sidechain compression", "distortion", "filter"},
		arrangement: "loop-based with verse sections",
	},
	"r&b": {
		tempo:       tempoFor(95, map[string]float64{"romantic": 70, "sad": 80}),
		key:         "Eb",
		progression: []string{"Eb", "Cm", "Ab", "Bb"},
		primary:     []string{"electric piano", "bass guitar", "drums", "vocals"},
		secondary:   []string{"organ", "strings", "background vocals", "synthesizer"},
		texture:     "smooth and soulful with warm tones",
		style:       "contemporary R&B with groove",
		effects:     []string{"warm reverb", "subtle delay", "chorus"},
		arrangement: "flowing structure with ad-libs",
	},
	"country": {
		tempo:       tempoFor(100, map[string]float64{"sad": 80}),
		key:         "G",
		progression: []string{"G", "C", "D", "Em"},
		primary:     []string{"acoustic guitar", "vocals", "bass", "drums"},
		secondary:   []string{"fiddle", "steel guitar", "mandolin", "harmonica"},
		texture:     "organic and authentic",
		style:       "country with clear storytelling",
		effects:     []string{"plate reverb", "subtle compression"},
		arrangement: "verse-chorus with narrative structure",
	},
	"indie": {
		tempo:       tempoFor(110, map[string]float64{"dreamy": 90, "aggressive": 140}),
		key:         "D",
		progression: []string{"D", "Bm", "G", "A"},
		primary:     []string{"electric guitar", "vocals", "bass", "drums"},
		secondary:   []string{"synthesizer", "piano", "organ", "percussion"},
		texture:     "lo-fi or atmospheric production",
		style:       "indie rock with character",
		effects:     []string{"tape delay", "distortion", "spring reverb"},
		arrangement: "dynamic structure with builds",
	},
	"rock": {
		tempo:       tempoFor(120, map[string]float64{"aggressive": 160, "sad": 80}),
		key:         "E",
		progression: []string{"E", "A", "B", "C#m"},
		primary:     []string{"electric guitar", "drums", "bass guitar", "vocals"},
		secondary:   []string{"lead guitar", "backing vocals", "keyboard", "cymbals"},
		texture:     "powerful and energetic",
		style:       "rock with driving rhythm",
		effects:     []string{"distortion", "overdrive", "compression", "gating"},
		arrangement: "verse-chorus with guitar solos",
	},
}

func defaultsFor(genre string) genreDefaults {
	if d, ok := defaultsByGenre[genre]; ok {
		return d
	}
	return defaultsByGenre["pop"]
}

// DefaultTempo returns the genre/vibe fallback tempo.
func DefaultTempo(genre, vibe string) float64 {
	return defaultsFor(genre).tempo(vibe)
}

var relativeMinors = map[string]string{
	"C": "Am", "C#": "A#m", "Db": "Bbm", "D": "Bm", "D#": "Cm", "Eb": "Cm",
	"E": "C#m", "F": "Dm", "F#": "D#m", "Gb": "Ebm", "G": "Em", "G#": "Fm",
	"Ab": "Fm", "A": "F#m", "A#": "Gm", "Bb": "Gm", "B": "G#m",
}

// RelativeMinor returns the relative minor of a major key, Am when unknown.
func RelativeMinor(major string) string {
	if minor, ok := relativeMinors[major]; ok {
		return minor
	}
	return "Am"
}

// NormalizeSuggestions turns raw writer output into a complete suggestion.
func NormalizeSuggestions(raw RawSuggestions, genre, vibe string, prefs Preferences) Suggestions {
	d := defaultsFor(genre)
	prefs = prefs.WithDefaults()

	fallbackBPM := d.tempo(vibe)
	bpm := raw.Tempo.BPM
	if bpm == 0 || math.IsNaN(bpm) {
		bpm = fallbackBPM
	}
	bpm = math.Max(MinBPM, math.Min(MaxBPM, bpm))

	major := firstNonEmpty(raw.Key.Major, d.key)

	progression := capList(raw.ChordProgression.Progression, maxProgression, d.progression)
	alternatives := capList(raw.ChordProgression.Alternatives, maxAlternatives, []string{strings.Join(d.progression, "-")})

	return Suggestions{
		Tempo: Tempo{
			BPM:         bpm,
			Description: firstNonEmpty(raw.Tempo.Description, fmt.Sprintf("%g BPM matching the %s vibe", fallbackBPM, vibe)),
		},
		Key: Key{
			Major:         major,
			RelativeMinor: firstNonEmpty(raw.Key.RelativeMinor, RelativeMinor(major)),
			Reasoning:     firstNonEmpty(raw.Key.Reasoning, fmt.Sprintf("%s major suits the %s emotional tone of the %s genre", major, vibe, genre)),
		},
		ChordProgression: ChordProgression{
			Progression:  progression,
			Complexity:   firstNonEmpty(raw.ChordProgression.Complexity, prefs.Complexity),
			Alternatives: alternatives,
		},
		Instrumentation: Instrumentation{
			Primary:   capList(raw.Instrumentation.Primary, maxInstruments, d.primary),
			Secondary: capList(raw.Instrumentation.Secondary, maxInstruments, d.secondary),
			Texture:   firstNonEmpty(raw.Instrumentation.Texture, d.texture),
		},
		Production: Production{
			Style:       firstNonEmpty(raw.Production.Style, d.style),
			Effects:     capList(raw.Production.Effects, maxEffects, d.effects),
			Arrangement: firstNonEmpty(raw.Production.Arrangement, d.arrangement),
		},
	}
}

// capList keeps at most limit entries of values, or copies fallback when the
// field was absent. An empty but present list stays empty.
func capList(values []string, limit int, fallback []string) []string {
	if values == nil {
		return append([]string(nil), fallback...)
	}
	if len(values) > limit {
		values = values[:limit]
	}
	return append([]string{}, values...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
