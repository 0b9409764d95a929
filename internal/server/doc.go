// Package server exposes SongService over HTTP.
//
// Every route runs through the same pipeline, outermost first: logging and
// metrics, the response normalizer (which renders errors into the JSON
// envelope), panic recovery, the CORS gate, method dispatch, the rate
// limiter, body validation, and finally the handler. Handlers return errors
// instead of writing failure responses themselves.
//
// Client identity for rate limiting comes from X-Forwarded-For or X-Real-IP.
// Both headers are caller-controlled, so limits are only meaningful behind a
// proxy that overwrites them.
package server
