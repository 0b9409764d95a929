package songwriting

import "strings"

var sectionAliases = map[string]string{
	"verse":      SectionVerse1,
	"verse1":     SectionVerse1,
	"verse 1":    SectionVerse1,
	"intro":      SectionVerse1,
	"verse2":     SectionVerse2,
	"verse 2":    SectionVerse2,
	"chorus":     SectionChorus,
	"pre-chorus": SectionPreChorus,
	"prechorus":  SectionPreChorus,
	"pre chorus": SectionPreChorus,
	"bridge":     SectionBridge,
	"outro":      SectionBridge,
	"hook":       SectionHook,
}

// NormalizeSection maps a user-facing section name to its canonical key.
// Unknown names are returned unchanged.
func NormalizeSection(target string) string {
	if key, ok := sectionAliases[strings.ToLower(strings.TrimSpace(target))]; ok {
		return key
	}
	return target
}

// ResolveSection normalizes target and reports whether lyrics has non-empty
// text for it.
func ResolveSection(lyrics Lyrics, target string) (string, bool) {
	key := NormalizeSection(target)
	return key, lyrics[key] != ""
}
