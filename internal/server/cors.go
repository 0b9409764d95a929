package server

import (
	"net/http"
	"slices"

	"lyricsmith/internal/services"
)

const (
	corsMethods = "GET,POST,PUT,PATCH,DELETE,OPTIONS"
	corsHeaders = "Content-Type, Authorization"
	corsMaxAge  = "86400"
)

// resolveOrigin returns the declared origin when allowed, else the first
// configured origin.
func (s *Server) resolveOrigin(origin string) (string, bool) {
	if origin != "" && slices.Contains(s.origins, origin) {
		return origin, true
	}
	if len(s.origins) == 0 {
		return "", false
	}
	return s.origins[0], false
}

func (s *Server) setCORSHeaders(c *Context) {
	if c.Origin == "" {
		c.Origin, _ = s.resolveOrigin(c.Request.Header.Get("Origin"))
	}
	h := c.Header()
	if c.Origin != "" {
		h.Set("Access-Control-Allow-Origin", c.Origin)
		h.Add("Vary", "Origin")
	}
	h.Set("Access-Control-Allow-Methods", corsMethods)
	h.Set("Access-Control-Allow-Headers", corsHeaders)
}

// cors answers preflights and rejects disallowed origins before any quota is
// consumed.
func (s *Server) cors(next Handler) Handler {
	return func(c *Context) error {
		declared := c.Request.Header.Get("Origin")
		origin, allowed := s.resolveOrigin(declared)
		c.Origin = origin
		s.setCORSHeaders(c)

		if c.Request.Method == http.MethodOptions {
			c.Header().Set("Access-Control-Max-Age", corsMaxAge)
			c.Writer.WriteHeader(http.StatusNoContent)
			return nil
		}
		if declared != "" && !allowed {
			return services.NewError(services.KindPolicy, "CORS_POLICY_VIOLATION", "CORS policy violation").
				WithStatus(http.StatusForbidden)
		}
		return next(c)
	}
}
