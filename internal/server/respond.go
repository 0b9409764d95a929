package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"lyricsmith/internal/api"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

var securityHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "DENY",
	"X-XSS-Protection":       "1; mode=block",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
	"Cache-Control":          "no-store, no-cache, must-revalidate, proxy-revalidate",
	"Pragma":                 "no-cache",
	"Expires":                "0",
}

func setSecurityHeaders(h http.Header) {
	for key, value := range securityHeaders {
		h.Set(key, value)
	}
}

// JSON writes a success envelope.
func (c *Context) JSON(status int, data any) error {
	return c.writeJSON(status, successEnvelope{Success: true, Data: data})
}

// OK writes a 200 success envelope.
func (c *Context) OK(data any) error { return c.JSON(http.StatusOK, data) }

func (c *Context) writeJSON(status int, payload any) error {
	c.Header().Set("Content-Type", "application/json")
	c.Writer.WriteHeader(status)
	return json.NewEncoder(c.Writer).Encode(payload)
}

// Audio streams synthesized speech.
func (c *Context) Audio(audio *api.VoiceAudio) error {
	h := c.Header()
	h.Set("Content-Type", audio.ContentType)
	h.Set("Content-Disposition", `inline; filename="`+audio.Filename+`"`)
	h.Set("Content-Length", strconv.Itoa(len(audio.Data)))
	h.Set("X-Voice-Style", audio.Style)
	h.Set("X-Voice-Preset", audio.Preset)
	if audio.Preview {
		h.Set("X-Voice-Preview", "true")
		h.Set("X-Preview-Duration", api.PreviewDurationHeader(audio.PreviewDuration))
	}
	c.Writer.WriteHeader(http.StatusOK)
	_, err := c.Writer.Write(audio.Data)
	return err
}
