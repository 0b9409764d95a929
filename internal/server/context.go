package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Context carries one request through the pipeline.
type Context struct {
	Writer    *responseWriter
	Request   *http.Request
	RequestID string
	ClientID  string
	// Origin is the CORS origin echoed on the response.
	Origin string
	// Route is the matched route name, used for limiter keys and metrics.
	Route string

	start  time.Time
	logger *slog.Logger
}

// Ctx returns the request context.
func (c *Context) Ctx() context.Context { return c.Request.Context() }

// Header returns the response headers.
func (c *Context) Header() http.Header { return c.Writer.Header() }

// Handler is one pipeline step.
type Handler func(*Context) error

// Middleware decorates a Handler.
type Middleware func(Handler) Handler

// Chain wraps h so the first middleware runs outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// clientIdentifier picks the limiter key for r. The first X-Forwarded-For
// entry wins, then X-Real-IP, then "unknown".
func clientIdentifier(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return "unknown"
}
