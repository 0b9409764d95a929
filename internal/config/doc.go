// Package config loads, normalizes, and validates LyricSmith configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, overlays .env files, and honours environment
// overrides such as OPENAI_API_KEY, RATE_LIMIT_REQUESTS, and CORS_ORIGIN. The
// Config type centralizes every knob the server and CLI need so provider
// credentials, limiter policy, and store location are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical provider names, and clear validation errors.
package config
