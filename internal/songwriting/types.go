package songwriting

import "slices"

// Genres accepted by the request schemas.
var Genres = []string{"pop", "rap", "r&b", "country", "indie", "rock", "hiphop", "rnb"}

// Vibes accepted by the request schemas.
var Vibes = []string{"sad", "hype", "dreamy", "aggressive", "romantic", "chill"}

// Canonical lyric section keys.
const (
	SectionVerse1    = "verse1"
	SectionVerse2    = "verse2"
	SectionPreChorus = "preChorus"
	SectionChorus    = "chorus"
	SectionBridge    = "bridge"
	SectionHook      = "hook"
)

// SectionOrder is the order sections are listed in when presented.
var SectionOrder = []string{
	SectionVerse1,
	SectionPreChorus,
	SectionChorus,
	SectionVerse2,
	SectionBridge,
	SectionHook,
}

// Lyrics maps a section key to its text.
type Lyrics map[string]string

// Sections returns the non-empty section keys, canonical ones first in
// SectionOrder and any others sorted after them.
func (l Lyrics) Sections() []string {
	out := make([]string, 0, len(l))
	for _, key := range SectionOrder {
		if l[key] != "" {
			out = append(out, key)
		}
	}
	var extra []string
	for key, text := range l {
		if text == "" || slices.Contains(SectionOrder, key) {
			continue
		}
		extra = append(extra, key)
	}
	slices.Sort(extra)
	return append(out, extra...)
}

// Clone returns an independent copy.
func (l Lyrics) Clone() Lyrics {
	out := make(Lyrics, len(l))
	for key, text := range l {
		out[key] = text
	}
	return out
}

// GenerateParams drives a lyrics generation.
type GenerateParams struct {
	Genre          string
	Vibe           string
	Theme          string
	Style          string
	SeedPhrase     string
	Sections       []string
	UniquenessHint string
}

// ReviseParams drives a single section revision.
type ReviseParams struct {
	Lyrics            Lyrics
	RevisionType      string
	Target            string
	Instruction       string
	PreserveStructure bool
	Genre             string
	Vibe              string
	Theme             string
}

// Revision is the writer's answer to a revision request.
type Revision struct {
	RevisedSection string   `json:"revisedSection"`
	Changes        []string `json:"changes"`
}

// Preferences steer music suggestions.
type Preferences struct {
	Tempo       string   `json:"tempo"`
	Complexity  string   `json:"complexity"`
	Instruments []string `json:"instruments"`
}

// WithDefaults fills unset preference fields.
func (p Preferences) WithDefaults() Preferences {
	if p.Tempo == "" {
		p.Tempo = "mid"
	}
	if p.Complexity == "" {
		p.Complexity = "moderate"
	}
	if p.Instruments == nil {
		p.Instruments = []string{}
	}
	return p
}

// MusicParams drives a music suggestion request.
type MusicParams struct {
	Lyrics      Lyrics
	Genre       string
	Vibe        string
	Preferences Preferences
}

// SongContext is optional chat context.
type SongContext struct {
	Genre string `json:"genre"`
	Vibe  string `json:"vibe"`
	Theme string `json:"theme"`
}

// ChatParams drives a free-form assistant reply.
type ChatParams struct {
	Message string
	Context *SongContext
}
