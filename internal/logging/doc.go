// Package logging assembles structured slog loggers and formatting helpers used
// across LyricSmith components.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so request handlers automatically
// tag log lines with request and client identifiers. The package also provides
// a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// records with the same shape as the rest of the service.
package logging
