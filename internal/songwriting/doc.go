// Package songwriting holds the lyrics domain: prompt construction, section
// naming, instruction safety checks, music suggestion normalization, and the
// Writer implementations that talk to an LLM (or stand in for one).
//
// # Writers
//
// LLMWriter renders prompts and decodes the JSON replies of an llm.Client.
// MockWriter returns fixed output and is used when no provider key is
// configured, so the HTTP surface stays usable in development.
//
// # Suggestions
//
// Provider suggestions are never trusted verbatim. NormalizeSuggestions clamps
// tempo, caps list lengths, and fills every missing field from per-genre
// defaults.
package songwriting
