// Package services defines shared utilities consumed by the API handlers and
// the provider integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request and client identifiers for logging
//     and rate limiting.
//   - Structured error markers plus the Wrap helper so provider clients can
//     tag failures (configuration, rate limiting, unavailability) without
//     callers matching on message text.
//   - The typed Error taxonomy the HTTP layer renders into error envelopes.
//
// Use these helpers when wiring new handlers so error classification and
// observability stay uniform across the service.
package services
