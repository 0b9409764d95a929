package songwriting

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	generateUserPrompt = "Generate the lyrics now."
	reviseUserPrompt   = "Provide the revision now."
	suggestUserPrompt  = "Provide music suggestions now."

	defaultSectionsHint = "Verse 1, Chorus (standard structure)"

	chatSystemPrompt = "You are a helpful AI songwriting assistant. Help users with their songwriting questions, provide creative suggestions, and offer guidance on lyrics, themes, and song structure. Be encouraging and creative."
)

var genreConventions = map[string]string{
	"pop":     "Catchy melodies, repetitive chorus, relatable lyrics, AABB rhyme schemes, 4/4 time signature",
	"rap":     "Strong rhythm, internal rhymes, wordplay, punchlines, storytelling, AABB or ABCB rhyme schemes",
	"r&b":     "Smooth vocals, emotional themes, soulful melodies, R&B progressions, complex rhyme patterns",
	"country": "Storytelling, imagery, themes of everyday life, AABA structure, simple rhymes, acoustic elements",
	"indie":   "Poetic lyrics, metaphors, unconventional structures, emotional depth, varied rhyme schemes",
	"rock":    "Powerful themes, strong rhythms, guitar-driven, call-and-response, AABB rhyme patterns",
}

var vibeGuidelines = map[string]string{
	"sad":        "Soft words, longing imagery, minor keys, slow tempo, emotional vulnerability, metaphors of loss",
	"hype":       "Energetic verbs, confident tone, punchy rhythm, major keys, fast tempo, celebratory language",
	"dreamy":     "Soft imagery, atmospheric tone, ethereal metaphors, gentle flow, introspective lyrics",
	"aggressive": "Sharp rhythm, confrontational language, strong beats, assertive tone, powerful imagery",
	"romantic":   "Heartfelt emotions, intimate language, sensual imagery, warm metaphors, tender expressions",
	"chill":      "Laid-back tone, relaxed pacing, warm textures, conversational language, mellow imagery",
}

// Casers carry state, so each call builds its own.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

func conventionsFor(genre string) string {
	if text, ok := genreConventions[genre]; ok {
		return text
	}
	return genreConventions["pop"]
}

func guidelinesFor(vibe string) string {
	if text, ok := vibeGuidelines[vibe]; ok {
		return text
	}
	return vibeGuidelines["dreamy"]
}

// GeneratePrompt renders the system prompt for a lyrics generation.
func GeneratePrompt(p GenerateParams) string {
	var b strings.Builder
	b.WriteString("You are LyricSmith, an AI songwriting partner. Write original song lyrics for the brief below.\n\n")
	fmt.Fprintf(&b, "Genre: %s\nConventions: %s\n\n", upper(p.Genre), conventionsFor(p.Genre))
	fmt.Fprintf(&b, "Vibe: %s\nGuidelines: %s\n\n", upper(p.Vibe), guidelinesFor(p.Vibe))
	fmt.Fprintf(&b, "Theme: %s\n", p.Theme)
	if p.Style != "" {
		fmt.Fprintf(&b, "Style: %s\n", p.Style)
	}
	if p.SeedPhrase != "" {
		fmt.Fprintf(&b, "Seed phrase (work it in naturally): %s\n", p.SeedPhrase)
	}
	sections := defaultSectionsHint
	if len(p.Sections) > 0 {
		sections = strings.Join(p.Sections, ", ")
	}
	fmt.Fprintf(&b, "Sections: %s\n", sections)
	if p.UniquenessHint != "" {
		fmt.Fprintf(&b, "Variation id: %s (make this take distinct from earlier ones)\n", p.UniquenessHint)
	}
	b.WriteString(`
Rules:
- Write entirely original lyrics. Never quote or imitate existing songs.
- Follow the genre conventions and the vibe guidelines.
- Keep every section singable with a consistent meter.
- The chorus carries the central idea and should be memorable.
- No explicit content.

Respond ONLY with JSON in this shape:
{"verse1": "...", "chorus": "...", "preChorus": "...", "bridge": "...", "hook": "..."}
Omit sections that were not requested. Separate lines within a section with \n.`)
	return b.String()
}

// RevisePrompt renders the system prompt for a section revision.
func RevisePrompt(p ReviseParams) (string, error) {
	current, err := json.MarshalIndent(p.Lyrics, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode lyrics: %w", err)
	}
	var b strings.Builder
	b.WriteString("You are LyricSmith, an AI songwriting partner revising one section of an existing song.\n\n")
	b.WriteString("Song context:\n")
	fmt.Fprintf(&b, "- Genre: %s\n- Vibe: %s\n- Theme: %s\n", p.Genre, p.Vibe, p.Theme)
	fmt.Fprintf(&b, "- Target section: %s\n- Revision type: %s\n", p.Target, p.RevisionType)
	fmt.Fprintf(&b, "- Preserve structure: %t\n\n", p.PreserveStructure)
	fmt.Fprintf(&b, "Current lyrics:\n%s\n\n", current)
	fmt.Fprintf(&b, "Instruction: %s\n", p.Instruction)
	b.WriteString(`
Rules:
- Rewrite only the target section and keep it consistent with the rest of the song.
- Keep the genre and vibe intact.
- When preserving structure, keep the line count and rhyme scheme.
- Write original lyrics only.

Respond ONLY with JSON in this shape:
{"revisedSection": "...", "changes": ["short description of each change"]}`)
	return b.String(), nil
}

// MusicPrompt renders the system prompt for music suggestions.
func MusicPrompt(p MusicParams) (string, error) {
	lyrics, err := json.MarshalIndent(p.Lyrics, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode lyrics: %w", err)
	}
	prefs, err := json.Marshal(p.Preferences.WithDefaults())
	if err != nil {
		return "", fmt.Errorf("encode preferences: %w", err)
	}
	var b strings.Builder
	b.WriteString("You are a music producer suggesting an arrangement for a song.\n\n")
	fmt.Fprintf(&b, "Lyrics:\n%s\n\n", lyrics)
	fmt.Fprintf(&b, "Genre: %s\nVibe: %s\nPreferences: %s\n", upper(p.Genre), upper(p.Vibe), prefs)
	b.WriteString(`
Respond ONLY with JSON in this shape:
{
  "tempo": {"bpm": 96, "description": "why this tempo fits"},
  "key": {"major": "C", "relativeMinor": "Am", "reasoning": "why this key fits"},
  "chordProgression": {"progression": ["C", "G", "Am", "F"], "complexity": "moderate", "alternatives": ["C-F-G-C"]},
  "instrumentation": {"primary": ["vocals", "piano"], "secondary": ["strings"], "texture": "overall texture"},
  "production": {"style": "mix style", "effects": ["reverb"], "arrangement": "section layout"}
}
Keep bpm between 60 and 180.`)
	return b.String(), nil
}

// ChatPrompt renders the assistant system prompt with optional song context.
func ChatPrompt(ctx *SongContext) string {
	if ctx == nil {
		return chatSystemPrompt
	}
	return fmt.Sprintf("%s\n\nCurrent song context:\nGenre: %s\nVibe: %s\nTheme: %s", chatSystemPrompt, ctx.Genre, ctx.Vibe, ctx.Theme)
}
