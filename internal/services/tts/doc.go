// Package tts wraps the OpenAI speech synthesis endpoint.
//
// Synthesize sends text with a voice preset and speed and returns the encoded
// audio. Requests are retried up to three times with a linear 400ms backoff.
// Failures carry services markers so callers can distinguish an unconfigured
// or rejected credential (ErrConfiguration) from provider outages.
package tts
