// Package voice maps artist styles to synthesis presets and derives the
// speaking speed and preview text budget for a speech request.
package voice
